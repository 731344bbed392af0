package booking

import (
	"context"
	"strings"

	"agendamento/models"
	"agendamento/utils"

	"go.uber.org/zap"
)

// CreateUnavailability registers a block. The PIN is checked before anything else.
func (s *DefaultBookingService) CreateUnavailability(ctx context.Context, in models.UnavailabilityInput) (*models.Unavailability, error) {
	if !utils.SecretMatches(s.Pin, in.Pin) {
		s.logger().Warn("Rejected unavailability with wrong PIN", zap.Int("city_id", in.CityID))
		return nil, &AuthError{Message: "PIN inválido"}
	}

	in.UnavailableDate = strings.TrimSpace(in.UnavailableDate)
	in.Reason = strings.TrimSpace(in.Reason)
	switch {
	case in.CityID <= 0:
		return nil, missing("city_id")
	case in.UnavailableDate == "":
		return nil, missing("unavailable_date")
	case in.Reason == "":
		return nil, missing("reason")
	}
	if _, err := models.ParseDate(in.UnavailableDate, s.location()); err != nil {
		return nil, &ValidationError{Field: "unavailable_date", Message: "formato esperado YYYY-MM-DD"}
	}

	var slot *string
	if in.UnavailableTime != nil {
		if t := strings.TrimSpace(*in.UnavailableTime); t != "" {
			if !models.ValidTime(t) {
				return nil, &ValidationError{Field: "unavailable_time", Message: "formato esperado HH:MM"}
			}
			slot = &t
		}
	}

	city, err := s.GetCity(ctx, in.CityID)
	if err != nil {
		return nil, err
	}

	u := &models.Unavailability{
		CityID:          in.CityID,
		UnavailableDate: in.UnavailableDate,
		UnavailableTime: slot,
		Reason:          in.Reason,
		CreatedAt:       s.now(),
	}
	if err := s.Repo.CreateUnavailability(ctx, u); err != nil {
		return nil, &StorageError{Op: "create unavailability", Err: err}
	}
	u.CityName = city.Name

	s.logger().Info("Unavailability registered",
		zap.Int("id", u.ID),
		zap.String("city", city.Name),
		zap.String("date", u.UnavailableDate),
	)
	if s.Mirror != nil {
		s.Mirror.UnavailabilityCreated(*u)
	}
	return u, nil
}

func (s *DefaultBookingService) ListUnavailabilities(ctx context.Context, cityID int) ([]models.Unavailability, error) {
	list, err := s.Repo.ListUnavailabilities(ctx, cityID, "")
	if err != nil {
		return nil, &StorageError{Op: "list unavailabilities", Err: err}
	}
	if city, err := s.Repo.GetCity(ctx, cityID); err == nil {
		for i := range list {
			list[i].CityName = city.Name
		}
	}
	return list, nil
}
