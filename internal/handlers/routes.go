package handlers

import (
	"github.com/DutsAndrew/ck-api-sub000/internal/middleware"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"go.uber.org/zap"
)

// Path names that share the /calendar/:id slot with calendar ids.
const (
	userCalendarDataPath = "getUserCalendarData"
	uploadCalendarPath   = "uploadCalendar"
)

// RouterConfig carries the handlers and settings NewRouter wires together.
type RouterConfig struct {
	Auth      *AuthHandler
	Calendars *CalendarHandler
	Notes     *NoteHandler
	Events    *EventHandler

	Authenticator middleware.Authenticator
	CORSOrigin    string
	Release       bool
	Logger        *zap.Logger
}

// NewRouter builds the application with its middleware chain and every route.
func NewRouter(cfg RouterConfig) *drift.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	app := drift.New()

	if cfg.Release {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(driftmw.Recovery())
	app.Use(middleware.CORS(cfg.CORSOrigin))
	app.Use(middleware.RequestLogger(cfg.Logger))
	app.Use(driftmw.BodyParser())

	app.Get("/", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"message": "ck-api"})
	})
	app.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	auth := app.Group("/auth")
	auth.Post("/signup", cfg.Auth.Signup)
	auth.Post("/login", cfg.Auth.Login)
	auth.Post("/refresh", cfg.Auth.Refresh)

	calendar := app.Group("/calendar")
	calendar.Use(middleware.Auth(cfg.Authenticator))

	// drift cannot hold a static segment next to :id, so the two named
	// collection routes are dispatched from the :id route.
	calendar.Get("/", cfg.Calendars.GetAppData)
	calendar.Get("/:id", byName(userCalendarDataPath, cfg.Calendars.GetUserCalendarData))
	calendar.Post("/:id", byName(uploadCalendarPath, cfg.Calendars.Create))

	calendar.Get("/:id/populated", cfg.Calendars.GetPopulated)
	calendar.Get("/:id/export", cfg.Calendars.Export)
	calendar.Post("/:id/accept", cfg.Calendars.Accept)
	calendar.Post("/:id/addUser/:user_id/:type", cfg.Calendars.AddUser)
	calendar.Delete("/:id/removeUserFromCalendar/:type/:user_id", cfg.Calendars.RemoveUser)
	calendar.Post("/:id/changeUserPermission/:user_id/:new_type", cfg.Calendars.ChangePermission)
	calendar.Delete("/:id/deleteCalendar/:user_id", cfg.Calendars.Delete)
	calendar.Post("/:id/setPreferredColor", cfg.Calendars.SetPreferredColor)

	calendar.Post("/:id/addNote", cfg.Notes.Create)
	calendar.Post("/:id/updateNote/:note_id", cfg.Notes.Update)
	calendar.Delete("/:id/deleteNote/:note_id", cfg.Notes.Delete)

	calendar.Post("/:id/createEvent", cfg.Events.Create)
	calendar.Put("/:id/updateEvent/:event_id", cfg.Events.Update)
	calendar.Delete("/:id/deleteEvent/:event_id", cfg.Events.Delete)

	return app
}

// byName runs handler when the :id segment is name and answers 404 otherwise.
func byName(name string, handler drift.HandlerFunc) drift.HandlerFunc {
	return func(c *drift.Context) {
		if c.Param("id") != name {
			respondDetail(c, 404, "not found")
			return
		}
		handler(c)
	}
}
