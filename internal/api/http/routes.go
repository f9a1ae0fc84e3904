package httpapi

import (
	"errors"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/FAYAZKLU/WeatherApp/internal/alerts"
	"github.com/FAYAZKLU/WeatherApp/internal/favorites"
	"github.com/FAYAZKLU/WeatherApp/internal/snapshot"
	"github.com/FAYAZKLU/WeatherApp/internal/weather"
)

var validate = validator.New()

const defaultForecastDays = 5

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc *weather.Service, store *favorites.Store, refresher *snapshot.Refresher) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		cw, err := svc.FetchCurrent(c.Context(), loc)
		if err != nil {
			return lookupError(err)
		}
		return c.JSON(cw)
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var req forecastQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		fc, err := svc.FetchForecast(c.Context(), loc, req.Days)
		if err != nil {
			return lookupError(err)
		}
		return c.JSON(fiber.Map{
			"location": loc,
			"days":     fc,
		})
	})

	v1.Get("/weather/alerts", func(c *fiber.Ctx) error {
		loc, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// Each side degrades independently: a failed lookup means that
		// input is absent for derivation, never an error response.
		var current *alerts.Reading
		cw, err := svc.FetchCurrent(c.Context(), loc)
		if err != nil {
			log.Printf("alerts: current lookup failed for %s: %v", loc.Key(), err)
		} else {
			current = &alerts.Reading{
				Temperature:  &cw.Temperature,
				Description:  cw.Description,
				WindSpeedKph: &cw.WindSpeedKph,
			}
		}

		var entries []alerts.ForecastEntry
		fc, err := svc.FetchForecast(c.Context(), loc, defaultForecastDays)
		if err != nil {
			log.Printf("alerts: forecast lookup failed for %s: %v", loc.Key(), err)
		} else {
			entries = make([]alerts.ForecastEntry, 0, len(fc))
			for _, day := range fc {
				entries = append(entries, alerts.ForecastEntry{
					Day:         day.Day,
					High:        day.High,
					Low:         day.Low,
					Description: day.Description,
				})
			}
		}

		derived := alerts.Derive(current, entries)
		views := make([]alertView, 0, len(derived))
		for _, a := range derived {
			views = append(views, alertView{Alert: a, Display: alerts.DescriptorFor(a.Type)})
		}

		return c.JSON(fiber.Map{
			"alerts": views,
			"count":  len(views),
		})
	})

	fav := v1.Group("/favorites")

	fav.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(store.List())
	})

	fav.Post("/", func(c *fiber.Ctx) error {
		var candidate favorites.Candidate
		if err := c.BodyParser(&candidate); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		saved, err := store.Add(c.Context(), candidate)
		if err != nil {
			if errors.Is(err, favorites.ErrNoCityName) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusBadGateway, "failed to save favorite")
		}
		return c.Status(fiber.StatusCreated).JSON(saved)
	})

	fav.Get("/weather", func(c *fiber.Ctx) error {
		return c.JSON(refresher.Snapshots())
	})

	fav.Delete("/:id", func(c *fiber.Ctx) error {
		id := favorites.ID(c.Params("id"))
		if err := store.Remove(c.Context(), id); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "failed to remove favorite")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	fav.Delete("/", func(c *fiber.Ctx) error {
		if err := store.Clear(c.Context()); err != nil {
			// The store has already reconciled with the backend; report
			// the failure but include what actually remains.
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(store.List())
	})
}

// alertView is an alert enriched with its static display descriptor.
type alertView struct {
	alerts.Alert
	Display alerts.Descriptor `json:"display"`
}

func lookupError(err error) error {
	if errors.Is(err, weather.ErrNoQuery) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusBadGateway, "weather data unavailable")
}

// parseLocationQuery builds a weather.Location from query parameters:
// either city (with optional country) or lat+lon.
func parseLocationQuery(c *fiber.Ctx) (weather.Location, error) {
	loc := weather.Location{
		City:    c.Query("city"),
		Country: c.Query("country"),
	}

	if latStr, lonStr := c.Query("lat"), c.Query("lon"); latStr != "" && lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return loc, errors.New("invalid lat parameter")
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return loc, errors.New("invalid lon parameter")
		}
		loc.Lat = &lat
		loc.Lon = &lon
	}

	if !loc.HasQuery() {
		return loc, errors.New("city or lat and lon query parameters are required")
	}
	return loc, nil
}

// forecastQuery holds query parameters for the forecast endpoint.
type forecastQuery struct {
	Days int `validate:"min=1,max=7"`
}

func (f *forecastQuery) bind(c *fiber.Ctx) error {
	f.Days = c.QueryInt("days", defaultForecastDays)
	return validate.Struct(f)
}
