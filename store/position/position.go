package position

import (
	"context"
	"fmt"

	"lending/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.IPositionStore {
	return &positionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Position{})
		if err := tx.AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Find(ctx context.Context, userID, assetID string) (*core.Position, error) {
	var position core.Position
	if err := s.db.View().Where("user_id=? and asset_id=?", userID, assetID).First(&position).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Position{UserID: userID, AssetID: assetID}, nil
		}

		return nil, err
	}

	return &position, nil
}

func (s *positionStore) FindByUser(ctx context.Context, userID string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("user_id=?", userID).Order("id ASC").Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *positionStore) FindByAsset(ctx context.Context, assetID string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("asset_id=?", assetID).Order("id ASC").Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *positionStore) Save(ctx context.Context, position *core.Position) error {
	if position.IsEmpty() {
		if position.ID == 0 {
			return nil
		}

		return s.db.Update().Where("id=?", position.ID).Delete(core.Position{}).Error
	}

	if position.ID == 0 {
		return s.db.Update().Create(position).Error
	}

	version := position.Version
	position.Version++

	tx := s.db.Update().Model(core.Position{}).Where("id=? and version=?", position.ID, version).Updates(map[string]interface{}{
		"scaled_deposit": position.ScaledDeposit,
		"scaled_debt":    position.ScaledDebt,
		"is_collateral":  position.IsCollateral,
		"version":        position.Version,
	})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return fmt.Errorf("update position %d version %d: %w", position.ID, version, core.ErrInvariantBroken)
	}

	return nil
}
