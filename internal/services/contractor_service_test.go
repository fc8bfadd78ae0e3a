package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/sitewalk-tasks/internal/repository"
)

func TestContractorService_AddContractor(t *testing.T) {
	ctx := context.Background()
	service := NewContractorService(newTestStore().contractorRepo)

	contractor, err := service.AddContractor(ctx, AddContractorInput{Name: " Acme Co ", Email: "acme@example.com", Trade: "Drywall"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Co", contractor.Name)

	_, err = service.AddContractor(ctx, AddContractorInput{Name: "acme co"})
	assert.ErrorIs(t, err, repository.ErrContractorExists)

	_, err = service.AddContractor(ctx, AddContractorInput{Name: "  "})
	assert.ErrorIs(t, err, ErrContractorNameRequired)

	_, err = service.AddContractor(ctx, AddContractorInput{Name: "Bolt Electric", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidEmail)
	assert.ErrorIs(t, err, ErrValidation)

	contractors, err := service.ListContractors(ctx)
	require.NoError(t, err)
	assert.Len(t, contractors, 1)
}
