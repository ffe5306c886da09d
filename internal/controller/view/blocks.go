package view

import "github.com/zaz600/go-musthave-shortener-client/internal/entity"

const (
	NoLinksPlaceholder   = "You have no links yet"
	LoadErrorPlaceholder = "Failed to load links"
	defaultCreatedLayout = "02.01.2006"
)

// LinkBlock отображение одной ссылки в списке
type LinkBlock struct {
	ID          int64
	OriginalURL string
	ShortURL    string
	Clicks      int64
	Created     string
	// Deletable показывать ли кнопку удаления
	Deletable bool
	// CopyText что копировать по кнопке копирования, пусто - кнопки нет
	CopyText string
}

// BlockOptions возможности текущего варианта клиента
type BlockOptions struct {
	DateLayout string
	CanDelete  bool
	CanCopy    bool
}

// BuildLinkBlocks строит по блоку на каждую ссылку.
// Короткая ссылка указывает на {origin}/r/{short_url}.
func BuildLinkBlocks(origin string, links []entity.LinkEntity, opts BlockOptions) []LinkBlock {
	layout := opts.DateLayout
	if layout == "" {
		layout = defaultCreatedLayout
	}
	blocks := make([]LinkBlock, 0, len(links))
	for _, link := range links {
		shortURL := link.ShortLink(origin)
		block := LinkBlock{
			ID:          link.ID,
			OriginalURL: link.OriginalURL,
			ShortURL:    shortURL,
			Clicks:      link.Clicks,
			Created:     link.CreatedAt.Local().Format(layout),
			Deletable:   opts.CanDelete,
		}
		if opts.CanCopy {
			block.CopyText = shortURL
		}
		blocks = append(blocks, block)
	}
	return blocks
}
