package view

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zaz600/go-musthave-shortener-client/internal/entity"
)

const origin = "http://localhost:8000"

func TestScreen_Sections(t *testing.T) {
	s := NewScreen(SectionLogin, SectionApp)

	assert.True(t, s.Has(SectionLogin))
	assert.False(t, s.Has(SectionRegister))
	assert.Empty(t, s.VisibleSections())

	require.NoError(t, s.Show(SectionLogin))
	assert.True(t, s.Visible(SectionLogin))
	assert.Equal(t, []Section{SectionLogin}, s.VisibleSections())

	err := s.Show(SectionRegister)
	assert.ErrorIs(t, err, ErrNoSection)
	assert.False(t, s.Visible(SectionRegister))

	require.NoError(t, s.Hide(SectionLogin))
	assert.False(t, s.Visible(SectionLogin))
}

func TestScreen_Regions(t *testing.T) {
	s := NewScreen(SectionLogin, SectionApp)

	assert.ErrorIs(t, s.SetMessage(RegionRegisterResult, Message{Text: "x"}), ErrNoRegion)

	require.NoError(t, s.SetMessage(RegionAuthResult, Message{Level: LevelSuccess, Text: "Logged in"}))
	c, ok := s.Content(RegionAuthResult)
	require.True(t, ok)
	require.NotNil(t, c.Message)
	assert.Equal(t, "Logged in", c.Message.Text)

	require.NoError(t, s.ClearMessage(RegionAuthResult))
	c, _ = s.Content(RegionAuthResult)
	assert.Nil(t, c.Message)
}

func TestScreen_RenderLinks_Empty(t *testing.T) {
	s := NewScreen(SectionLogin, SectionApp)
	require.NoError(t, s.RenderLinks(nil))
	c, _ := s.Content(RegionLinksList)
	assert.Equal(t, NoLinksPlaceholder, c.Placeholder)
	assert.Empty(t, c.Links)
}

func TestScreen_Alerts(t *testing.T) {
	s := NewScreen(SectionLogin)
	s.Alert("one")
	s.Alert("two")
	assert.Equal(t, []string{"one", "two"}, s.DrainAlerts())
	assert.Empty(t, s.DrainAlerts())
}

func TestBuildLinkBlocks(t *testing.T) {
	created := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.Local)
	links := []entity.LinkEntity{
		{ID: 1, OriginalURL: "http://a", ShortURL: "aaa", Clicks: 2, CreatedAt: entity.Timestamp{Time: created}},
		{ID: 2, OriginalURL: "http://b", ShortURL: "bbb", Clicks: 0, CreatedAt: entity.Timestamp{Time: created}},
	}

	blocks := BuildLinkBlocks(origin, links, BlockOptions{DateLayout: "2006-01-02", CanDelete: true, CanCopy: true})
	require.Len(t, blocks, 2)
	assert.Equal(t, LinkBlock{
		ID:          1,
		OriginalURL: "http://a",
		ShortURL:    "http://localhost:8000/r/aaa",
		Clicks:      2,
		Created:     "2024-05-01",
		Deletable:   true,
		CopyText:    "http://localhost:8000/r/aaa",
	}, blocks[0])
	assert.Equal(t, "http://localhost:8000/r/bbb", blocks[1].ShortURL)

	minimal := BuildLinkBlocks(origin, links, BlockOptions{})
	assert.False(t, minimal[0].Deletable)
	assert.Empty(t, minimal[0].CopyText)
	assert.Equal(t, "01.05.2024", minimal[0].Created)

	assert.Empty(t, BuildLinkBlocks(origin, nil, BlockOptions{}))
}

func TestScreen_Render(t *testing.T) {
	s := NewScreen(SectionLogin, SectionRegister, SectionApp)
	require.NoError(t, s.Show(SectionApp))
	require.NoError(t, s.SetMessage(RegionLinkResult, Message{Level: LevelSuccess, Text: "Link created!", Link: origin + "/r/aaa"}))
	require.NoError(t, s.RenderLinks([]LinkBlock{{
		ID:          7,
		OriginalURL: "http://a",
		ShortURL:    origin + "/r/aaa",
		Clicks:      3,
		Created:     "01.05.2024",
		Deletable:   true,
	}}))
	require.NoError(t, s.SetMessage(RegionAuthResult, Message{Text: "hidden"}))
	s.Alert("Session expired")

	var buf bytes.Buffer
	require.NoError(t, s.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "!! Session expired")
	assert.Contains(t, out, "== My links ==")
	assert.Contains(t, out, "[ok] Link created!")
	assert.Contains(t, out, "Original: http://a")
	assert.Contains(t, out, "Short:    http://localhost:8000/r/aaa")
	assert.Contains(t, out, "Clicks:   3")
	assert.Contains(t, out, "Created:  01.05.2024")
	assert.Contains(t, out, "[delete 7]")
	assert.NotContains(t, out, "hidden", "скрытые разделы не выводятся")
	assert.NotContains(t, out, "== Login ==")

	buf.Reset()
	require.NoError(t, s.Render(&buf))
	assert.NotContains(t, buf.String(), "Session expired", "alert показывается один раз")
}

func TestScreen_Snapshot(t *testing.T) {
	s := NewScreen(SectionLogin, SectionRegister, SectionApp)
	require.NoError(t, s.Show(SectionLogin))
	require.NoError(t, s.SetMessage(RegionAuthResult, Message{Text: "Login successful!"}))
	require.NoError(t, s.SetMessage(RegionLinkResult, Message{Text: "hidden"}))
	s.Alert("Session expired")

	f := s.snapshot()
	require.NoError(t, s.Hide(SectionLogin))
	require.NoError(t, s.Show(SectionApp))
	require.NoError(t, s.SetMessage(RegionAuthResult, Message{Text: "changed"}))

	assert.Equal(t, []string{"Session expired"}, f.alerts)
	assert.Equal(t, []Section{SectionLogin}, f.sections)
	assert.Equal(t, map[Region]Content{RegionAuthResult: {Message: &Message{Text: "Login successful!"}}}, f.contents)
	assert.Empty(t, s.DrainAlerts(), "snapshot забирает алерты")
}

func TestScreen_Render_Concurrent(t *testing.T) {
	s := NewScreen(SectionLogin, SectionApp)
	require.NoError(t, s.Show(SectionLogin))

	const n = 100
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			s.Alert(fmt.Sprintf("alert %d", i))
			_ = s.RenderLinks([]LinkBlock{{ID: int64(i), ShortURL: origin + "/r/aaa"}})
			if i%2 == 0 {
				_ = s.Hide(SectionLogin)
				_ = s.Show(SectionApp)
			} else {
				_ = s.Hide(SectionApp)
				_ = s.Show(SectionLogin)
			}
		}
	}()

	var out strings.Builder
	for i := 0; i < n; i++ {
		require.NoError(t, s.Render(&out))
	}
	wg.Wait()
	require.NoError(t, s.Render(&out))

	for i := 0; i < n; i++ {
		assert.Equal(t, 1, strings.Count(out.String(), fmt.Sprintf("!! alert %d\n", i)))
	}
}
