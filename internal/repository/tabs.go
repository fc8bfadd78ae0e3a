package repository

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/yukikurage/sitewalk-tasks/internal/constants"
	"github.com/yukikurage/sitewalk-tasks/internal/models"
	"github.com/yukikurage/sitewalk-tasks/internal/sheets"
	gsheets "google.golang.org/api/sheets/v4"
)

// TabProvisioner creates tabs with their headers, validation rules and
// conditional formatting. Calls are serialized so two requests cannot both
// decide that the same tab is missing.
type TabProvisioner struct {
	backend sheets.Backend
	mu      sync.Mutex
}

func NewTabProvisioner(backend sheets.Backend) *TabProvisioner {
	return &TabProvisioner{backend: backend}
}

// tabSpec describes how to set up a freshly created tab.
type tabSpec struct {
	title   string
	headers []string
	format  func(sheetID int64) []*gsheets.Request
}

// EnsureTaskTabs makes sure the Contractors tab (the source of the assignee
// dropdown) and each named task tab exist. It returns the titles it created.
func (p *TabProvisioner) EnsureTaskTabs(ctx context.Context, titles ...string) ([]string, error) {
	specs := []tabSpec{contractorsTabSpec()}
	for _, title := range titles {
		specs = append(specs, taskTabSpec(title))
	}
	return p.ensure(ctx, specs...)
}

// EnsureContractorsTab makes sure the Contractors tab exists.
func (p *TabProvisioner) EnsureContractorsTab(ctx context.Context) (bool, error) {
	created, err := p.ensure(ctx, contractorsTabSpec())
	return len(created) > 0, err
}

func (p *TabProvisioner) ensure(ctx context.Context, specs ...tabSpec) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	existing, err := p.backend.TabNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tabs: %w", err)
	}

	var created []string
	for _, spec := range specs {
		if slices.Contains(existing, spec.title) || slices.Contains(created, spec.title) {
			continue
		}
		if err := p.provision(ctx, spec); err != nil {
			return created, err
		}
		created = append(created, spec.title)
		slog.Info("provisioned tab", "tab", spec.title)
	}
	return created, nil
}

func (p *TabProvisioner) provision(ctx context.Context, spec tabSpec) error {
	sheetID, err := p.backend.AddTab(ctx, spec.title)
	if err != nil {
		return fmt.Errorf("failed to create tab %q: %w", spec.title, err)
	}

	headerRange := sheets.RowRange(spec.title, 1, len(spec.headers))
	if err := p.backend.WriteRange(ctx, headerRange, [][]any{headerRow(spec.headers)}); err != nil {
		return fmt.Errorf("failed to write headers for tab %q: %w", spec.title, err)
	}

	if err := p.backend.Format(ctx, spec.format(sheetID)); err != nil {
		return fmt.Errorf("failed to format tab %q: %w", spec.title, err)
	}
	return nil
}

func taskTabSpec(title string) tabSpec {
	return tabSpec{
		title:   title,
		headers: TaskHeaders[:],
		format: func(sheetID int64) []*gsheets.Request {
			statuses := make([]string, len(models.TaskStatuses))
			for i, s := range models.TaskStatuses {
				statuses[i] = string(s)
			}
			priorities := make([]string, len(models.TaskPriorities))
			for i, p := range models.TaskPriorities {
				priorities[i] = string(p)
			}
			assignees := sheets.Range(constants.ContractorsTabName, "$A$2:$A")

			return []*gsheets.Request{
				sheets.HeaderStyle(sheetID, int(TaskColumnCount)),
				sheets.FreezeHeader(sheetID),
				sheets.ListValidation(sheetID, ColStatus, statuses, true),
				sheets.ListValidation(sheetID, ColPriority, priorities, false),
				sheets.RangeValidation(sheetID, ColAssignedTo, assignees, false),
				sheets.HighlightText(sheetID, ColStatus, string(models.TaskStatusOpen), sheets.LightRed),
				sheets.HighlightText(sheetID, ColStatus, string(models.TaskStatusInProgress), sheets.LightAmber),
				sheets.HighlightText(sheetID, ColStatus, string(models.TaskStatusClosed), sheets.LightGreen),
			}
		},
	}
}

func contractorsTabSpec() tabSpec {
	return tabSpec{
		title:   constants.ContractorsTabName,
		headers: ContractorHeaders[:],
		format: func(sheetID int64) []*gsheets.Request {
			return []*gsheets.Request{
				sheets.HeaderStyle(sheetID, int(ContractorColumnCount)),
				sheets.FreezeHeader(sheetID),
			}
		},
	}
}
