package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/application/service"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/brewpos-api/internal/presentation/http/middleware"
	"github.com/sangkips/brewpos-api/pkg/apperror"
)

const dateLayout = "2006-01-02"

// currentActor returns the authenticated staff member, writing a 401 when absent
func currentActor(c *gin.Context) (service.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Unauthorized(c, "Staff not authenticated")
		return service.Actor{}, false
	}
	return actor, true
}

// uuidParam parses a path parameter, writing a 400 when it is not a UUID
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses an optional query value
func optionalUUID(field, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, apperror.NewFieldError(field, "must be a UUID")
	}
	return &id, nil
}

// parseBound reads a range bound. Dates are taken in loc; an inclusive
// upper date becomes the following midnight.
func parseBound(field, value string, loc *time.Location, upper bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	day, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return nil, apperror.NewFieldError(field, "must be YYYY-MM-DD or RFC 3339")
	}
	if upper {
		day = day.AddDate(0, 0, 1)
	}
	return &day, nil
}

// parseRange reads a from/to pair into a report range
func parseRange(from, to string, loc *time.Location) (service.ReportRange, error) {
	start, err := parseBound("from", from, loc, false)
	if err != nil {
		return service.ReportRange{}, err
	}
	end, err := parseBound("to", to, loc, true)
	if err != nil {
		return service.ReportRange{}, err
	}
	return service.ReportRange{From: start, To: end}, nil
}
