package httpapi

import (
	"context"
	"errors"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Dowline1/SurfSmart-AI/internal/forecast"
	"github.com/Dowline1/SurfSmart-AI/internal/geo"
	"github.com/Dowline1/SurfSmart-AI/internal/store"
	"github.com/Dowline1/SurfSmart-AI/internal/webcam"
)

var validate = validator.New()

// Runner abstracts the pipeline engine so handlers can be tested with a
// stub.
type Runner interface {
	Run(ctx context.Context, req forecast.Request) forecast.Result
}

// ImageResolver abstracts the webcam supplier.
type ImageResolver interface {
	Resolve(ctx context.Context, spot string, mode webcam.Mode, upload *forecast.Image) (*forecast.Image, error)
	Spots() []string
}

// ConditionReader abstracts the condition history store.
type ConditionReader interface {
	GetLatest(spot string) (forecast.Conditions, error)
	GetRange(spot string, from, to time.Time) ([]forecast.Conditions, error)
}

// Geocoder resolves a spot name to coordinates when the caller supplies
// none.
type Geocoder interface {
	Resolve(spot string) (forecast.Coordinates, error)
}

// Deps bundles everything the handlers need.
type Deps struct {
	Runner     Runner
	Images     ImageResolver
	Conditions ConditionReader
	Geocoder   Geocoder
	Spots      []forecast.Spot
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Post("/forecast", func(c *fiber.Ctx) error {
		form, err := parseForecastForm(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		coords, err := resolveCoordinates(form, deps)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		image, err := resolveImage(c, form, deps)
		if err != nil {
			if errors.Is(err, webcam.ErrNoImage) {
				return fiber.NewError(fiber.StatusNotFound, "no image available")
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result := deps.Runner.Run(c.UserContext(), forecast.Request{
			Spot:       form.Spot,
			Coords:     coords,
			SkillLevel: form.SkillLevel,
			Image:      image,
		})

		return c.JSON(result)
	})

	v1.Get("/conditions/latest", func(c *fiber.Ctx) error {
		spot := c.Query("spot")
		if spot == "" {
			return fiber.NewError(fiber.StatusBadRequest, "spot query parameter is required")
		}

		cond, err := deps.Conditions.GetLatest(spot)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no conditions for requested spot")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch conditions")
		}

		return c.JSON(cond)
	})

	v1.Get("/conditions/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snapshots, err := deps.Conditions.GetRange(req.Spot, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no condition history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch condition history")
		}

		return c.JSON(fiber.Map{
			"spot":      req.Spot,
			"from":      req.From,
			"to":        req.To,
			"snapshots": snapshots,
		})
	})

	v1.Get("/spots", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"spots":   deps.Spots,
			"webcams": deps.Images.Spots(),
		})
	})
}

// forecastForm holds the multipart fields of a forecast request.
type forecastForm struct {
	Spot       string `validate:"required"`
	SkillLevel string `validate:"required"`
	ImageMode  string `validate:"omitempty,oneof=upload sample live"`
	Lat        string
	Lon        string
}

var skillLevels = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
}

func parseForecastForm(c *fiber.Ctx) (forecastForm, error) {
	form := forecastForm{
		Spot:       strings.TrimSpace(c.FormValue("spot")),
		SkillLevel: strings.TrimSpace(c.FormValue("skill_level")),
		ImageMode:  c.FormValue("image_mode"),
		Lat:        c.FormValue("lat"),
		Lon:        c.FormValue("lon"),
	}

	if err := validate.Struct(form); err != nil {
		return form, err
	}

	form.SkillLevel = strings.ToLower(form.SkillLevel)
	if !skillLevels[form.SkillLevel] {
		return form, errors.New("skill_level must be one of beginner, intermediate, advanced")
	}

	if form.ImageMode == "" {
		form.ImageMode = string(webcam.ModeUpload)
	}

	return form, nil
}

// resolveCoordinates picks caller-supplied coordinates when present,
// otherwise a configured spot, otherwise the geocoder.
func resolveCoordinates(form forecastForm, deps Deps) (forecast.Coordinates, error) {
	if form.Lat != "" || form.Lon != "" {
		if form.Lat == "" || form.Lon == "" {
			return forecast.Coordinates{}, errors.New("lat and lon must be supplied together")
		}

		lat, err := strconv.ParseFloat(form.Lat, 64)
		if err != nil {
			return forecast.Coordinates{}, errors.New("invalid lat value")
		}
		lon, err := strconv.ParseFloat(form.Lon, 64)
		if err != nil {
			return forecast.Coordinates{}, errors.New("invalid lon value")
		}
		if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
			return forecast.Coordinates{}, errors.New("lat and lon must be finite")
		}

		return forecast.Coordinates{Latitude: lat, Longitude: lon}, nil
	}

	for _, spot := range deps.Spots {
		if spot.Name == form.Spot {
			return spot.Coords, nil
		}
	}

	if deps.Geocoder != nil {
		coords, err := deps.Geocoder.Resolve(form.Spot)
		if err == nil {
			return coords, nil
		}
		if !errors.Is(err, geo.ErrNotConfigured) {
			return forecast.Coordinates{}, errors.New("could not resolve coordinates for spot")
		}
	}

	return forecast.Coordinates{}, errors.New("coordinates required: unknown spot and no geocoder configured")
}

// resolveImage produces the pipeline's image input. The pipeline is never
// invoked without one.
func resolveImage(c *fiber.Ctx, form forecastForm, deps Deps) (*forecast.Image, error) {
	mode := webcam.Mode(form.ImageMode)

	var upload *forecast.Image
	if mode == webcam.ModeUpload {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			return nil, errors.New("an image upload is required to generate a forecast")
		}

		upload, err = readUpload(fileHeader)
		if err != nil {
			return nil, err
		}
	}

	return deps.Images.Resolve(c.UserContext(), form.Spot, mode, upload)
}

func readUpload(fileHeader *multipart.FileHeader) (*forecast.Image, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, errors.New("could not read uploaded image")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.New("could not read uploaded image")
	}

	mime := fileHeader.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(data)
	}

	return &forecast.Image{Data: data, MIME: mime}, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Spot string    `validate:"required"`
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	h.Spot = c.Query("spot")

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
