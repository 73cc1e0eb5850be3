package repository

import (
	"context"
	"errors"

	"bankledger/internal/model"

	"gorm.io/gorm"
)

var ErrCustomerNotFound = errors.New("customer does not exist")

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]*model.Customer, error) {
	var customers []*model.Customer
	err := r.db.WithContext(ctx).Order("id ASC").Find(&customers).Error
	return customers, err
}

// Seed creates the given customers by name if they do not exist yet. Safe to
// run on every startup.
func (r *CustomerRepository) Seed(ctx context.Context, names []string) error {
	for _, name := range names {
		customer := &model.Customer{Name: name}
		err := r.db.WithContext(ctx).
			Where("name = ?", name).
			FirstOrCreate(customer).Error
		if err != nil {
			return err
		}
	}
	return nil
}
