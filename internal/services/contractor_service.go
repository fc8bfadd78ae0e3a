package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/sitewalk-tasks/internal/models"
	"github.com/yukikurage/sitewalk-tasks/internal/repository"
)

var (
	ErrContractorNameRequired = fmt.Errorf("%w: contractor name is required", ErrValidation)
	ErrInvalidEmail           = fmt.Errorf("%w: email address is invalid", ErrValidation)
)

// AddContractorInput represents input for registering a contractor
type AddContractorInput struct {
	Name  string `validate:"required"`
	Email string `validate:"omitempty,email"`
	Phone string
	Trade string
}

// ContractorService handles the contractor registry
type ContractorService struct {
	contractorRepo repository.ContractorRepository
	validate       *validator.Validate
}

// NewContractorService creates a new ContractorService
func NewContractorService(contractorRepo repository.ContractorRepository) *ContractorService {
	return &ContractorService{
		contractorRepo: contractorRepo,
		validate:       validator.New(),
	}
}

// AddContractor validates and registers a contractor
func (s *ContractorService) AddContractor(ctx context.Context, input AddContractorInput) (*models.Contractor, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)

	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Email" {
			return nil, ErrInvalidEmail
		}
		return nil, ErrContractorNameRequired
	}

	contractor := &models.Contractor{
		Name:  input.Name,
		Email: input.Email,
		Phone: strings.TrimSpace(input.Phone),
		Trade: strings.TrimSpace(input.Trade),
	}
	if err := s.contractorRepo.Create(ctx, contractor); err != nil {
		if errors.Is(err, repository.ErrContractorExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to add contractor: %w", err)
	}
	return contractor, nil
}

// ListContractors returns every registered contractor
func (s *ContractorService) ListContractors(ctx context.Context) ([]models.Contractor, error) {
	contractors, err := s.contractorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contractors: %w", err)
	}
	return contractors, nil
}
