// Package people registers and lists the persons who can take part in
// meetings.
package people

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/meetsched/internal/domain"
	"github.com/roach88/meetsched/internal/store"
	"github.com/roach88/meetsched/internal/validate"
)

// Service manages persons.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// NewService creates a Service. A nil logger uses slog.Default().
func NewService(st store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger}
}

// Register validates and stores a new person. Emails and names must be
// unique; names are compared case-insensitively.
func (s *Service) Register(ctx context.Context, name, email string, phone *string) (domain.Person, error) {
	p, err := validate.Person(name, email, phone)
	if err != nil {
		return domain.Person{}, err
	}

	err = s.store.RunInTx(ctx, func(tx store.Tx) error {
		if _, err := tx.FindPersonByEmail(ctx, p.Email); err == nil {
			return domain.NewError(domain.KindValidation, "Email already registered")
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if _, err := tx.FindPersonByName(ctx, p.Name); err == nil {
			return domain.NewError(domain.KindValidation, "Name already registered")
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		id, err := tx.InsertPerson(ctx, p)
		if errors.Is(err, store.ErrDuplicate) {
			return domain.NewError(domain.KindValidation, "Person already registered")
		}
		if err != nil {
			return err
		}
		p.ID = id
		return nil
	})
	if err != nil {
		var de *domain.Error
		if !errors.As(err, &de) {
			err = domain.StoreError("Database error", err)
		}
		return domain.Person{}, err
	}

	s.logger.Debug("person registered", "id", p.ID, "name", p.Name)
	return p, nil
}

// List returns every registered person ordered by name.
func (s *Service) List(ctx context.Context) ([]domain.Person, error) {
	var persons []domain.Person
	err := s.store.RunInTx(ctx, func(tx store.Tx) error {
		var err error
		persons, err = tx.ListPersons(ctx)
		return err
	})
	if err != nil {
		return nil, domain.StoreError("Database error", err)
	}
	return persons, nil
}
