package view

import (
	"fmt"
	"io"
	"strings"
)

var sectionTitles = map[Section]string{
	SectionLogin:    "Login",
	SectionRegister: "Register",
	SectionApp:      "My links",
}

var sectionRegions = map[Section][]Region{
	SectionLogin:    {RegionAuthResult},
	SectionRegister: {RegionRegisterResult},
	SectionApp:      {RegionLinkResult, RegionLinksList},
}

var levelMarks = map[Level]string{
	LevelInfo:    "",
	LevelSuccess: "[ok] ",
	LevelError:   "[error] ",
}

// frame содержимое экрана на один момент времени
type frame struct {
	alerts   []string
	sections []Section
	contents map[Region]Content
}

// snapshot забирает алерты и копирует видимые разделы с их областями под одной блокировкой
func (s *Screen) snapshot() frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := frame{alerts: s.alerts, contents: make(map[Region]Content)}
	s.alerts = nil
	for _, section := range sectionOrder {
		if !s.sections[section] {
			continue
		}
		f.sections = append(f.sections, section)
		for _, region := range sectionRegions[section] {
			if c, ok := s.regions[region]; ok {
				f.contents[region] = c
			}
		}
	}
	return f
}

// Render выводит видимые разделы с их областями и накопленные модальные сообщения.
// Изменения экрана во время вывода попадут только в следующий кадр.
func (s *Screen) Render(w io.Writer) error {
	f := s.snapshot()

	var b strings.Builder
	for _, alert := range f.alerts {
		fmt.Fprintf(&b, "!! %s\n", alert)
	}
	for _, section := range f.sections {
		fmt.Fprintf(&b, "== %s ==\n", sectionTitles[section])
		for _, region := range sectionRegions[section] {
			if c, ok := f.contents[region]; ok {
				writeContent(&b, c)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeContent(b *strings.Builder, c Content) {
	if c.Message != nil {
		fmt.Fprintf(b, "%s%s\n", levelMarks[c.Message.Level], c.Message.Text)
		if c.Message.Link != "" {
			fmt.Fprintf(b, "  %s\n", c.Message.Link)
		}
	}
	if c.Placeholder != "" {
		fmt.Fprintf(b, "%s\n", c.Placeholder)
	}
	for _, link := range c.Links {
		fmt.Fprintf(b, "#%d\n", link.ID)
		fmt.Fprintf(b, "  Original: %s\n", link.OriginalURL)
		fmt.Fprintf(b, "  Short:    %s\n", link.ShortURL)
		fmt.Fprintf(b, "  Clicks:   %d\n", link.Clicks)
		fmt.Fprintf(b, "  Created:  %s\n", link.Created)
		var actions []string
		if link.CopyText != "" {
			actions = append(actions, "copy")
		}
		if link.Deletable {
			actions = append(actions, fmt.Sprintf("delete %d", link.ID))
		}
		if len(actions) > 0 {
			fmt.Fprintf(b, "  [%s]\n", strings.Join(actions, "] ["))
		}
	}
}
