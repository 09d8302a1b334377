package catalog

import (
	"database/sql"
	"sync"
)

type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Sport is a sport the service can keep statistics for.
type Sport struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category is one statistics category of a sport, in display order.
type Category struct {
	Name      string `json:"name"`
	IsDoubles bool   `json:"is_doubles"`
}
