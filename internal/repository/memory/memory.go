package memory

import (
	"fund_loader/internal/repository"
)

var (
	_ repository.HistoryRepository = (*HistoryRepository)(nil)
)
