package handlers

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/joki_seeder/internal/middleware"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/realtime"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/registry"
	"github.com/Windi-Fikriyansyah/joki_seeder/internal/seeder"
)

type SeedHandler struct {
	Manager *seeder.Manager
	Hub     *realtime.Hub
}

func NewSeedHandler(m *seeder.Manager, hub *realtime.Hub) *SeedHandler {
	return &SeedHandler{Manager: m, Hub: hub}
}

// Mount registers the seed routes. Every route needs a valid token; starting a run and
// watching it need the admin role.
func (h *SeedHandler) Mount(app *fiber.App, secret string) {
	api := app.Group("/api/seed", middleware.JWT(secret), middleware.AttachJWTLocals())
	api.Get("/status", h.Status)
	api.Get("/plan", h.Plan)
	api.Post("/run", middleware.RequireRoles("admin"), h.Run)

	app.Use("/ws/seed",
		middleware.JWT(secret),
		middleware.AttachJWTLocals(),
		middleware.RequireRoles("admin"),
		func(c *fiber.Ctx) error {
			if !websocket.IsWebSocketUpgrade(c) {
				return fiber.ErrUpgradeRequired
			}
			c.Locals("allowed", true)
			return c.Next()
		})
	app.Get("/ws/seed", websocket.New(h.Stream))
}

func (h *SeedHandler) Status(c *fiber.Ctx) error {
	counts, err := h.Manager.Counts(c.UserContext())
	if err != nil {
		log.Printf("[handlers] seed status: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to read stored counts",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"environment": h.Manager.Config().Environment,
			"running":     h.Manager.Running(),
			"counts":      counts,
			"last_result": h.Manager.LastResult(),
		},
	})
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Plan resolves ?modules=a,b&categories=core&deps=true without generating anything.
func (h *SeedHandler) Plan(c *fiber.Ctx) error {
	sel := registry.SelectOptions{
		Modules:             splitList(c.Query("modules")),
		IncludeDependencies: c.QueryBool("deps", true),
		DryRun:              true,
	}
	for _, cat := range splitList(c.Query("categories")) {
		sel.Categories = append(sel.Categories, registry.Category(cat))
	}

	plan, err := h.Manager.Plan(sel)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"order":     plan,
			"selection": sel,
		},
	})
}

// Run starts a seeding pass in the background and returns 202. With ?wait=true it
// blocks and returns the result.
func (h *SeedHandler) Run(c *fiber.Ctx) error {
	if h.Manager.Running() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": seeder.ErrRunInProgress.Error(),
		})
	}

	uid, _ := c.Locals("userId").(string)
	log.Printf("[handlers] seed run requested by %s", uid)

	if !c.QueryBool("wait") {
		go func() {
			if _, err := h.Manager.Run(context.Background()); err != nil {
				log.Printf("[handlers] seed run: %v", err)
			}
		}()
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"success": true,
			"message": "seeding started",
		})
	}

	res, err := h.Manager.Run(c.UserContext())
	switch {
	case errors.Is(err, seeder.ErrRunInProgress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	case err != nil:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
			"data":    res,
		})
	}
	return c.JSON(fiber.Map{
		"success": res.Success,
		"data":    res,
	})
}

// Stream relays hub broadcasts to one websocket client.
func (h *SeedHandler) Stream(c *websocket.Conn) {
	uid, _ := c.Locals("userId").(string)
	client := &realtime.Client{
		ID:     uuid.New().String(),
		UserID: uid,
		Conn:   realtime.NewWebSocketConn(c),
		Send:   make(chan []byte, 256),
	}

	h.Hub.RegisterClient(client)
	defer h.Hub.UnregisterClient(client)

	go func() {
		for msg := range client.Send {
			if err := client.Conn.Write(msg); err != nil {
				log.Printf("[handlers] websocket write: %v", err)
				return
			}
		}
	}()

	// reads only detect the disconnect
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
