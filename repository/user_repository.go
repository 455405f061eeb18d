package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tharunramasamy/quickpickapp/models"
)

// UserRepository defines the interface for user and partner data access
type UserRepository interface {
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateCustomer(ctx context.Context, user *models.User) error
	CreateStaffWithStore(ctx context.Context, user *models.User, storeCity, storeName, storeAddress string) (uint, error)
	CreatePartner(ctx context.Context, user *models.User) error
	GetPartner(ctx context.Context, userID uuid.UUID) (*models.DeliveryPartner, error)
	SetPartnerStatus(ctx context.Context, userID uuid.UUID, from, to models.PartnerStatus) error
}

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// FindByIdentifier looks a user up by phone or email.
func (r *GormUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("phone = ? OR email = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) CreateCustomer(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createUser(tx, user)
	})
}

// CreateStaffWithStore onboards inventory staff opening a new dark store:
// the city is upserted by name, exactly one location is created, and the
// user is bound to that city. Returns the resolved city id.
func (r *GormUserRepository) CreateStaffWithStore(ctx context.Context, user *models.User, storeCity, storeName, storeAddress string) (uint, error) {
	var cityID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var city models.City
		if err := tx.Where(models.City{Name: storeCity}).FirstOrCreate(&city).Error; err != nil {
			return err
		}
		location := models.InventoryLocation{
			CityID:  city.ID,
			Name:    storeName,
			Address: storeAddress,
			Active:  true,
		}
		if err := tx.Create(&location).Error; err != nil {
			return err
		}
		user.CityID = city.ID
		cityID = city.ID
		return createUser(tx, user)
	})
	if err != nil {
		return 0, err
	}
	return cityID, nil
}

func (r *GormUserRepository) CreatePartner(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := createUser(tx, user); err != nil {
			return err
		}
		partner := models.DeliveryPartner{
			UserID: user.ID,
			Status: models.PartnerInactive,
		}
		return tx.Create(&partner).Error
	})
}

func (r *GormUserRepository) GetPartner(ctx context.Context, userID uuid.UUID) (*models.DeliveryPartner, error) {
	var partner models.DeliveryPartner
	err := r.db.WithContext(ctx).First(&partner, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}
	return &partner, nil
}

// SetPartnerStatus flips the partner status only when the current status
// matches; a zero affected-row count means the partner raced into another
// state.
func (r *GormUserRepository) SetPartnerStatus(ctx context.Context, userID uuid.UUID, from, to models.PartnerStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.DeliveryPartner{}).
		Where("user_id = ? AND status = ?", userID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var partner models.DeliveryPartner
		if err := r.db.WithContext(ctx).First(&partner, "user_id = ?", userID).Error; err != nil {
			return ErrPartnerNotFound
		}
		return fmt.Errorf("%w: partner is %s", ErrPartnerUnavailable, partner.Status)
	}
	return nil
}

// createUser guards the phone uniqueness inside the caller's transaction.
// The pre-check gives the common case a clean answer; a concurrent signup
// that slips past it hits the unique index, which gorm translates to
// ErrDuplicatedKey.
func createUser(tx *gorm.DB, user *models.User) error {
	var existing models.User
	err := tx.Where("phone = ?", user.Phone).First(&existing).Error
	if err == nil {
		return ErrDuplicatePhone
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err := tx.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicatePhone
		}
		return err
	}
	return nil
}
