package db

import (
	"context"

	"multicaster/internal/discovery"
)

// AnnouncementStorage журнал полученных анонсов
type AnnouncementStorage interface {
	Save(ctx context.Context, a discovery.Announcement) error
	List(ctx context.Context, limit int) ([]Record, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

var _ AnnouncementStorage = (*AnnounceDB)(nil)
var _ discovery.Journal = (*AnnounceDB)(nil)
