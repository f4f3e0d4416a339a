package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Avinash0717/Nitigati/internal/provider"
)

// Registry is the persistence surface the registration routes need; nil
// when Supabase is not configured.
type Registry interface {
	CreateProvider(rec provider.Record) (*provider.Record, error)
	GetProvider(id string) (*provider.Record, error)
	SaveImages(id string, images []provider.Image) error
}

// Handlers serves the provider registration API consumed after the
// onboarding session completes.
type Handlers struct {
	Registry Registry
}

func (h Handlers) Register(e *echo.Echo) {
	e.POST("/api/providers", h.createProvider)
	e.GET("/api/providers/:uuid", h.getProvider)
	e.POST("/api/providers/upload-images", h.uploadImages)
}

type createProviderRequest struct {
	OnboardingType string   `json:"onboarding_type"`
	Name           string   `json:"name"`
	Age            *int     `json:"age"`
	Gender         string   `json:"gender"`
	Location       string   `json:"location"`
	PhoneNumber    string   `json:"phone_number"`
	Email          string   `json:"email"`
	Skills         []string `json:"skills"`
}

func (h Handlers) createProvider(c echo.Context) error {
	if h.Registry == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"detail": "registration not configured"})
	}
	var req createProviderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid request body"})
	}
	if req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "name and email are required"})
	}

	rec, err := h.Registry.CreateProvider(provider.Record{
		OnboardingType: req.OnboardingType,
		Name:           req.Name,
		Age:            req.Age,
		Gender:         req.Gender,
		Location:       req.Location,
		PhoneNumber:    req.PhoneNumber,
		Email:          req.Email,
		Skills:         req.Skills,
	})
	if err != nil {
		if errors.Is(err, provider.ErrDuplicateEmail) {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "A provider with this email already exists."})
		}
		c.Echo().Logger.Errorf("create provider failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "failed to create provider"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"uuid":    rec.UUID,
		"message": "Provider record created. Please upload images to complete registration.",
	})
}

func (h Handlers) getProvider(c echo.Context) error {
	if h.Registry == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"detail": "registration not configured"})
	}
	rec, err := h.Registry.GetProvider(c.Param("uuid"))
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Provider not found."})
		}
		c.Echo().Logger.Errorf("get provider failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "failed to fetch provider"})
	}
	return c.JSON(http.StatusOK, rec)
}

var imageFields = []string{"profile_picture", "legal_id_front", "legal_id_back"}

func (h Handlers) uploadImages(c echo.Context) error {
	if h.Registry == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"detail": "registration not configured"})
	}
	id := c.FormValue("uuid")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "uuid is required"})
	}

	images := make([]provider.Image, 0, len(imageFields))
	for _, field := range imageFields {
		fh, err := c.FormFile(field)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": field + " is required"})
		}
		f, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "failed to read " + field})
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "failed to read " + field})
		}
		images = append(images, provider.Image{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	if err := h.Registry.SaveImages(id, images); err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"detail": "Provider record not found for the given UUID."})
		}
		c.Echo().Logger.Errorf("upload images failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "failed to upload images"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Images uploaded and registration complete."})
}
