package models

import (
	"time"
)

type Property struct {
	ID           int       `json:"id"`
	OwnerID      int       `json:"owner_id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	NightlyPrice int64     `json:"nightly_price"`
	CreatedAt    time.Time `json:"created_at"`
}
