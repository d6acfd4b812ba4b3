package api

import "menu-planner/domain"

const postCommandMaxSize = 64 * 1024 // 64 KiB

// POST /api/commands response body
type postCommandResponse struct {
	IdempotencyKeys []string `json:"idempotencyKeys,omitempty"`
	Applied         int      `json:"applied"`
	Duplicates      []string `json:"duplicates,omitempty"`
	FailedIndex     *int     `json:"failedIndex,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// GET /api/catalog response item
type catalogSection struct {
	Name       domain.MealSection `json:"name"`
	Categories []domain.Category  `json:"categories"`
}

// POST /api/sections/:section/fetch response body
type fetchResponse struct {
	Section domain.MealSection `json:"section"`
	Status  string             `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}
