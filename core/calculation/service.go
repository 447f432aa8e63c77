package calculation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/gradefinalboss/gradeboss/core"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound = errors.New("calculation not found")
)

type (
	Repository interface {
		CreateRecord(ctx context.Context, rec Record, exec ...core.DBExecutor) (Record, error)
		// QueryRecords returns the records matching every set QueryFilter field, in the given order.
		QueryRecords(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Record, error)
		GetRecord(ctx context.Context, id string, exec ...core.DBExecutor) (Record, error)
		// DeleteRecords deletes the records of userID among ids and returns how many were deleted.
		DeleteRecords(ctx context.Context, userID string, ids []string, exec ...core.DBExecutor) (int, error)
	}

	Service interface {
		Save(ctx context.Context, userID string, nr NewRecord) (Record, error)
		SavePending(ctx context.Context, userID string, p *Pending) (*Record, error)
		QueryByUser(ctx context.Context, userID string, filter QueryFilter, ordering []core.DBOrdering) ([]Record, error)
		Get(ctx context.Context, userID, id string) (Record, error)
		Delete(ctx context.Context, userID string, ids ...string) (int, error)
	}

	service struct {
		repo      Repository
		analytics core.AnalyticsService
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, analytics core.AnalyticsService) Service {
	return &service{repo: repo, analytics: analytics}
}

// Save stores a calculation for userID.
func (svc *service) Save(ctx context.Context, userID string, nr NewRecord) (Record, error) {
	if userID == "" {
		return Record{}, core.NewValidationError(nil, core.FieldError{Field: "user_id", Error: "this field is required"})
	}
	if err := nr.check(); err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:              uuid.New().String(),
		UserID:          userID,
		Kind:            nr.Kind,
		InputData:       nr.InputData,
		CalculatedValue: *nr.CalculatedValue,
		CreatedAt:       NowFunc().UTC(),
	}
	rec, err := svc.repo.CreateRecord(ctx, rec)
	if err != nil {
		return Record{}, errors.Wrap(err, "creating record")
	}

	svc.analytics.Track("save_calculation", map[string]interface{}{"kind": string(rec.Kind)})
	return rec, nil
}

// SavePending stores a calculation made before sign in. It is a no-op, returning nil, when p is empty.
func (svc *service) SavePending(ctx context.Context, userID string, p *Pending) (*Record, error) {
	if p.IsEmpty() {
		return nil, nil
	}
	value := p.CalculatedValue
	rec, err := svc.Save(ctx, userID, NewRecord{
		Kind:            p.Kind,
		InputData:       p.InputData,
		CalculatedValue: &value,
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (svc *service) QueryByUser(ctx context.Context, userID string, filter QueryFilter, ordering []core.DBOrdering) ([]Record, error) {
	filter.Clean()
	filter.UserID = userID
	if filter.Kind != "" && !filter.Kind.IsValid() {
		return []Record{}, nil
	}

	ordering = core.FilterOrderings(ordering, OrderingFields...)
	if len(ordering) == 0 {
		ordering = DefaultOrdering
	}

	recs, err := svc.repo.QueryRecords(ctx, filter, ordering)
	if err != nil {
		return nil, errors.Wrap(err, "querying records")
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}

// Get returns the record id if it belongs to userID.
func (svc *service) Get(ctx context.Context, userID, id string) (Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Record{}, ErrNotFound
	}
	rec, err := svc.repo.GetRecord(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec.UserID != userID {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (svc *service) Delete(ctx context.Context, userID string, ids ...string) (int, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return 0, nil
	}
	return svc.repo.DeleteRecords(ctx, userID, valid)
}
