package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	HasRecordOnDate(ctx context.Context, employeeID string, date time.Time) (bool, error)
	LatestOpenRecord(ctx context.Context, employeeID string) (*Record, error)
	CreateRecord(ctx context.Context, employeeID string, checkIn, date time.Time) (string, error)
	CompleteRecord(ctx context.Context, recordID string, checkOut time.Time) error
}
