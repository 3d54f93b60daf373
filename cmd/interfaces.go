package cmd

import (
	"context"

	"github.com/anicoll/bakeout-livesync/internal/pkg/model"
)

// Device defines what cmd.run expects from the bakeout web app client.
type Device interface {
	GetAll(ctx context.Context) (model.ReadResponse, error)
	Get(ctx context.Context, codename string) (model.ReadResponse, error)
	Set(ctx context.Context, values map[string]float64) (string, error)
}
