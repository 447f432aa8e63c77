package testutil

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gradefinalboss/gradeboss/core"
	"github.com/gradefinalboss/gradeboss/core/calculation"
	"github.com/gradefinalboss/gradeboss/core/user"
	logsvc "github.com/gradefinalboss/gradeboss/services/logger"
)

// NewLogger returns a core.Logger that discards everything.
func NewLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateRecord(
	t *testing.T,
	repo calculation.Repository,
	userID string,
	kind calculation.Kind,
	input map[string]interface{},
	value float64,
	createdAt ...time.Time,
) calculation.Record {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	data, err := json.Marshal(input)
	if err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	rec, err := repo.CreateRecord(context.Background(), calculation.Record{
		ID:              uuid.New().String(),
		UserID:          userID,
		Kind:            kind,
		InputData:       data,
		CalculatedValue: value,
		CreatedAt:       tstamp,
	})
	if err != nil {
		t.Fatalf("CreateRecord() failed: %v", err)
	}
	return rec
}
