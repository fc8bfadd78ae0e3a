package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yukikurage/sitewalk-tasks/internal/constants"
	"github.com/yukikurage/sitewalk-tasks/internal/models"
	"github.com/yukikurage/sitewalk-tasks/internal/sheets"
)

// SheetsContractorRepository is a spreadsheet implementation of ContractorRepository
type SheetsContractorRepository struct {
	backend sheets.Backend
	tabs    *TabProvisioner
	mu      sync.Mutex
}

// NewContractorRepository creates a new ContractorRepository
func NewContractorRepository(backend sheets.Backend, tabs *TabProvisioner) *SheetsContractorRepository {
	return &SheetsContractorRepository{backend: backend, tabs: tabs}
}

// Create appends a contractor; names are unique ignoring case
func (r *SheetsContractorRepository) Create(ctx context.Context, contractor *models.Contractor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.tabs.EnsureContractorsTab(ctx); err != nil {
		return err
	}

	existing, err := r.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range existing {
		if strings.EqualFold(c.Name, contractor.Name) {
			return fmt.Errorf("%w: %s", ErrContractorExists, contractor.Name)
		}
	}

	rng := sheets.ColumnsRange(constants.ContractorsTabName, ContractorColumnCount)
	if err := r.backend.AppendRows(ctx, rng, [][]any{contractorToRow(*contractor)}); err != nil {
		return fmt.Errorf("failed to append contractor: %w", err)
	}
	return nil
}

// List returns every contractor with a name
func (r *SheetsContractorRepository) List(ctx context.Context) ([]models.Contractor, error) {
	rows, err := r.backend.ReadRange(ctx, sheets.ColumnsRange(constants.ContractorsTabName, ContractorColumnCount))
	if err != nil {
		if errors.Is(err, sheets.ErrTabNotFound) {
			return []models.Contractor{}, nil
		}
		return nil, fmt.Errorf("failed to read contractors tab: %w", err)
	}

	contractors := []models.Contractor{}
	if len(rows) <= 1 {
		return contractors, nil
	}
	for _, row := range rows[1:] {
		c := rowToContractor(row)
		if c.Name == "" {
			continue
		}
		contractors = append(contractors, c)
	}
	return contractors, nil
}

// Emails maps contractor names to their email addresses
func (r *SheetsContractorRepository) Emails(ctx context.Context) (map[string]string, error) {
	contractors, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	emails := make(map[string]string, len(contractors))
	for _, c := range contractors {
		if c.Email == "" {
			continue
		}
		emails[c.Name] = c.Email
	}
	return emails, nil
}
