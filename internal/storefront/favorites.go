package storefront

import (
	"context"

	"go.uber.org/zap"
)

// FavoritesAPI 收藏依赖的接口
type FavoritesAPI interface {
	Favorites(ctx context.Context) ([]FavoriteItem, error)
	AddFavorite(ctx context.Context, productID uint) ([]FavoriteItem, error)
	RemoveFavorite(ctx context.Context, productID uint) ([]FavoriteItem, error)
}

// FavoritesStore 会话级收藏状态
type FavoritesStore struct {
	api   FavoritesAPI
	log   *zap.SugaredLogger
	state *syncedList[FavoriteItem]
}

// NewFavoritesStore 创建收藏状态
func NewFavoritesStore(api FavoritesAPI, log *zap.SugaredLogger) *FavoritesStore {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &FavoritesStore{api: api, log: log, state: newSyncedList[FavoriteItem]()}
}

func (s *FavoritesStore) Fetch(ctx context.Context) error {
	err := s.state.fetch(ctx, s.api.Favorites)
	if err != nil {
		s.log.Warnw("favorites_fetch_failed", "error", err)
	}
	return err
}

func (s *FavoritesStore) Add(ctx context.Context, productID uint) error {
	err := s.state.mutate(ctx, nil, func(ctx context.Context) ([]FavoriteItem, error) {
		return s.api.AddFavorite(ctx, productID)
	})
	if err != nil {
		s.log.Warnw("favorites_mutation_failed", "op", "add", "product_id", productID, "error", err)
	}
	return err
}

func (s *FavoritesStore) Remove(ctx context.Context, productID uint) error {
	err := s.state.mutate(ctx, nil, func(ctx context.Context) ([]FavoriteItem, error) {
		return s.api.RemoveFavorite(ctx, productID)
	})
	if err != nil {
		s.log.Warnw("favorites_mutation_failed", "op", "remove", "product_id", productID, "error", err)
	}
	return err
}

// Toggle 已收藏则取消，否则添加
func (s *FavoritesStore) Toggle(ctx context.Context, productID uint) error {
	if s.Contains(productID) {
		return s.Remove(ctx, productID)
	}
	return s.Add(ctx, productID)
}

func (s *FavoritesStore) Items() []FavoriteItem {
	return s.state.snapshot()
}

func (s *FavoritesStore) Contains(productID uint) bool {
	for _, item := range s.state.snapshot() {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

func (s *FavoritesStore) Err() error {
	return s.state.lastErr()
}

func (s *FavoritesStore) Subscribe() (<-chan struct{}, func()) {
	return s.state.subscribe()
}
