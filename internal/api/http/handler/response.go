package handler

import "github.com/gofiber/fiber/v3"

// Every JSON body is either {"data": ...} or {"error": "..."}; the route
// authorizer emits the same error shape.
type dataEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func respond(c fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(dataEnvelope{Data: data})
}

func fail(c fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(errorEnvelope{Error: msg})
}

func ok(c fiber.Ctx, data any) error      { return respond(c, fiber.StatusOK, data) }
func created(c fiber.Ctx, data any) error { return respond(c, fiber.StatusCreated, data) }
func noContent(c fiber.Ctx) error         { return c.SendStatus(fiber.StatusNoContent) }

func badRequest(c fiber.Ctx, msg string) error { return fail(c, fiber.StatusBadRequest, msg) }
func notFound(c fiber.Ctx, msg string) error   { return fail(c, fiber.StatusNotFound, msg) }
func conflict(c fiber.Ctx, msg string) error   { return fail(c, fiber.StatusConflict, msg) }

func unauthorized(c fiber.Ctx) error {
	return fail(c, fiber.StatusUnauthorized, "authentication required")
}

func forbidden(c fiber.Ctx) error {
	return fail(c, fiber.StatusForbidden, "forbidden")
}

func internalError(c fiber.Ctx) error {
	return fail(c, fiber.StatusInternalServerError, "internal server error")
}
