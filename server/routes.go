package server

import "github.com/gofiber/fiber/v2"

// route binds a verb and a path under /v1/post to a handler. local is set
// for the routes that answer their own errors in legacy mode.
type route struct {
	method  string
	path    string
	handler fiber.Handler
	local   localError
}

func routes(h *handlers) []route {
	return []route{
		{method: fiber.MethodPost, path: "/", handler: h.createPost},
		{method: fiber.MethodGet, path: "/", handler: h.listPosts},
		{method: fiber.MethodGet, path: "/:id", handler: h.getPost, local: describeWith("getting specific")},
		{method: fiber.MethodPut, path: "/", handler: h.putPost, local: describeWith("putting")},
		{method: fiber.MethodPatch, path: "/", handler: h.patchPost, local: describeWith("patching")},
		{method: fiber.MethodDelete, path: "/", handler: h.deletePost, local: describeDelete},
		{method: fiber.MethodDelete, path: "/:id", handler: h.deletePost, local: describeDelete},
	}
}
