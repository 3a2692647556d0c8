// Package report builds portfolio summary reports and allocation charts.
package report

import (
	"fmt"
	"sort"

	"github.com/bmorton/folio/internal/common"
	"github.com/bmorton/folio/internal/interfaces"
	"github.com/bmorton/folio/internal/models"
	"github.com/bmorton/folio/internal/portfolio"
)

// Service produces summaries and charts from live portfolios.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Summary flattens a portfolio into report rows sorted by symbol, with
// asset, cash and total figures from the cached prices.
func (s *Service) Summary(p *portfolio.Portfolio) *models.PortfolioSummary {
	holdings := p.Holdings()

	rows := make([]models.HoldingSummary, 0, len(holdings))
	for _, h := range holdings {
		rows = append(rows, models.HoldingSummary{
			Symbol:       h.Symbol,
			Name:         h.Name,
			Quantity:     h.Quantity,
			CurrentPrice: h.CurrentPrice,
			TotalValue:   h.MarketValue(),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Symbol < rows[j].Symbol })

	return &models.PortfolioSummary{
		UserID:      p.UserID(),
		Holdings:    rows,
		AssetValue:  p.AssetValue(),
		CashBalance: p.CashBalance(),
		TotalValue:  p.TotalValue(),
	}
}

// SaveAllocationChart renders the allocation chart and writes it under the
// storage data path. Returns the artifact key.
func (s *Service) SaveAllocationChart(p *portfolio.Portfolio) (string, error) {
	png, err := RenderAllocationChart(s.Summary(p))
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("allocation-%d.png", p.UserID())
	if err := s.storage.WriteRaw("charts", key, png); err != nil {
		return "", fmt.Errorf("failed to save allocation chart: %w", err)
	}

	s.logger.Info().
		Int64("user_id", p.UserID()).
		Str("key", key).
		Msg("Allocation chart saved")
	return key, nil
}
