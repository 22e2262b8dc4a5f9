package httpapi

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/avelichka/skycast/internal/auth"
	"github.com/avelichka/skycast/internal/session"
	"github.com/avelichka/skycast/internal/weather"
)

var validate = validator.New()

// loginFailedMessage is the single external message for both unknown-user and
// bad-password failures, so responses do not reveal which field was wrong.
const loginFailedMessage = "incorrect username or password"

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, authSvc *auth.Service, sessions *session.Manager, weatherSvc *weather.Service) {
	authGroup := app.Group("/auth")
	authGroup.Post("/signup", handleSignup(authSvc, sessions))
	authGroup.Post("/verify", handleVerify(authSvc, sessions))
	authGroup.Post("/cancel", handleCancel(sessions))
	authGroup.Post("/login", handleLogin(authSvc, sessions))
	authGroup.Post("/logout", handleLogout(sessions))

	requireAuth := requireAuthMiddleware(sessions)
	app.Get("/weather", requireAuth, handleWeather(weatherSvc))
	app.Post("/predict", requireAuth, handlePredict())
}

type signupRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func handleSignup(authSvc *auth.Service, sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signupRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		pending, err := authSvc.BeginSignup(c.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			var fieldErr *auth.FieldError
			if errors.As(err, &fieldErr) {
				// A failed attempt leaves any earlier pending signup intact.
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fieldErr.Message})
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to start signup")
		}

		if err := sessions.SetPending(c, pending); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to store signup state")
		}

		return c.JSON(fiber.Map{
			"message": "verification code sent to " + pending.Email,
		})
	}
}

type verifyRequest struct {
	Code string `json:"code" validate:"required"`
}

func handleVerify(authSvc *auth.Service, sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req verifyRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		pending, ok, err := sessions.Pending(c)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read signup state")
		}
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": auth.ErrNoPendingSignup.Error()})
		}

		cred, err := authSvc.VerifyCode(c.Context(), pending, req.Code)
		switch {
		case errors.Is(err, auth.ErrInvalidCode):
			// Pending stays intact; the client may retry with the right code.
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid verification code"})
		case errors.Is(err, auth.ErrRegistrationConflict):
			if clearErr := sessions.ClearPending(c); clearErr != nil {
				log.Printf("clear pending signup: %v", clearErr)
			}
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "registration conflict, please sign up again"})
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "failed to complete signup")
		}

		if err := sessions.LoginAs(c, cred.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to establish session")
		}

		return c.JSON(fiber.Map{
			"message": "account created",
			"user": fiber.Map{
				"id":       cred.ID,
				"username": cred.Username,
			},
		})
	}
}

// handleCancel discards an in-progress signup explicitly. Abandoning the
// flow without cancelling is equivalent; the pending record dies with the
// session either way.
func handleCancel(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := sessions.ClearPending(c); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to clear signup state")
		}
		return c.JSON(fiber.Map{"message": "signup cancelled"})
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func handleLogin(authSvc *auth.Service, sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		cred, err := authSvc.Login(c.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrUnknownUser) || errors.Is(err, auth.ErrBadPassword) {
				// The causes stay distinct in logs only.
				log.Printf("login rejected for %q: %v", req.Username, err)
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": loginFailedMessage})
			}
			return fiber.NewError(fiber.StatusInternalServerError, "login failed")
		}

		if err := sessions.LoginAs(c, cred.ID); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to establish session")
		}

		return c.JSON(fiber.Map{
			"message": "logged in",
			"user": fiber.Map{
				"id":       cred.ID,
				"username": cred.Username,
			},
		})
	}
}

func handleLogout(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := sessions.Logout(c); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to end session")
		}
		return c.JSON(fiber.Map{"message": "logged out"})
	}
}

func requireAuthMiddleware(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, ok, err := sessions.CurrentUserID(c)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read session")
		}
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
		}
		return c.Next()
	}
}

func handleWeather(weatherSvc *weather.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		city := c.Query("city")
		if city == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "city query parameter is required"})
		}

		report, err := weatherSvc.CityWeather(c.Context(), city)
		if err != nil {
			if errors.Is(err, weather.ErrCityNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "City not found"})
			}
			log.Printf("weather lookup failed for %q: %v", city, err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}

		return c.JSON(report)
	}
}

type predictRequest struct {
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	Temperature float64 `json:"temperature"`
	Cloud       float64 `json:"cloud"`
	Wind        float64 `json:"wind"`
}

func handlePredict() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req predictRequest
		// Absent fields default to zero; non-numeric values are a user error.
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input: " + err.Error()})
		}

		level := weather.PredictRainfall(weather.ManualReading{
			Humidity:    req.Humidity,
			Pressure:    req.Pressure,
			Temperature: req.Temperature,
			Cloud:       req.Cloud,
			Wind:        req.Wind,
		})

		return c.JSON(fiber.Map{"prediction": level.Message()})
	}
}
