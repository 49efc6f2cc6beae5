package service

import (
	"errors"
	"fmt"
	"strings"

	"restocked-api/internal/model"
	"restocked-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCategoryExists = errors.New("category with this name already exists")

type CategoryService interface {
	CreateCategory(name string) (*model.Category, error)
	RenameCategory(id uuid.UUID, name string) (*model.Category, error)
	DeleteCategory(id uuid.UUID) error
	GetCategory(id uuid.UUID) (*model.Category, error)
	GetAllCategories() ([]model.Category, error)
}

type categoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func (s *categoryService) CreateCategory(name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	if _, err := s.categories.FindByName(name); err == nil {
		return nil, ErrCategoryExists
	}

	category := &model.Category{Name: name}
	if err := s.categories.Create(category); err != nil {
		// Unique index catches the race the pre-check misses
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) RenameCategory(id uuid.UUID, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	category, err := s.categories.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if existing, err := s.categories.FindByName(name); err == nil && existing.ID != id {
		return nil, ErrCategoryExists
	}

	category.Name = name
	if err := s.categories.Update(category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes the category only. Products keep their
// categoryId reference; it is validated at product write time, not as a
// live foreign key.
func (s *categoryService) DeleteCategory(id uuid.UUID) error {
	if err := s.categories.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

func (s *categoryService) GetCategory(id uuid.UUID) (*model.Category, error) {
	category, err := s.categories.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetAllCategories() ([]model.Category, error) {
	return s.categories.FindAll()
}
