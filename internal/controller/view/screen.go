package view

import (
	"errors"
	"fmt"
	"sync"
)

// Section взаимоисключающий раздел интерфейса
type Section int

const (
	SectionLogin Section = iota
	SectionRegister
	SectionApp
)

func (s Section) String() string {
	switch s {
	case SectionLogin:
		return "login-section"
	case SectionRegister:
		return "register-section"
	case SectionApp:
		return "app-section"
	default:
		return fmt.Sprintf("section(%d)", int(s))
	}
}

// Region область внутри раздела, в которую выводятся сообщения или список ссылок
type Region int

const (
	RegionAuthResult Region = iota
	RegionRegisterResult
	RegionLinkResult
	RegionLinksList
)

func (r Region) String() string {
	switch r {
	case RegionAuthResult:
		return "auth-result"
	case RegionRegisterResult:
		return "register-result"
	case RegionLinkResult:
		return "link-result"
	case RegionLinksList:
		return "links-list"
	default:
		return fmt.Sprintf("region(%d)", int(r))
	}
}

// sectionOrder порядок вывода разделов
var sectionOrder = []Section{SectionLogin, SectionRegister, SectionApp}

// regionSection в каком разделе находится область
var regionSection = map[Region]Section{
	RegionAuthResult:     SectionLogin,
	RegionRegisterResult: SectionRegister,
	RegionLinkResult:     SectionApp,
	RegionLinksList:      SectionApp,
}

var (
	ErrNoSection = errors.New("section not found")
	ErrNoRegion  = errors.New("region not found")
)

// Level тип сообщения
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// Message сообщение пользователю. Link - необязательная ссылка под сообщением.
type Message struct {
	Level Level
	Text  string
	Link  string
}

// Content содержимое области: сообщение или список ссылок.
// Placeholder выводится вместо пустого списка.
type Content struct {
	Message     *Message
	Links       []LinkBlock
	Placeholder string
}

// Screen модель экрана: разделы с видимостью и именованные области.
// Разделы показываются и скрываются явно, области перерисовываются целиком.
type Screen struct {
	mu       sync.Mutex
	sections map[Section]bool
	regions  map[Region]Content
	alerts   []string
}

// NewScreen экран с указанными разделами. Все разделы изначально скрыты.
// Области создаются для тех разделов, которые есть на экране.
func NewScreen(sections ...Section) *Screen {
	s := &Screen{
		sections: make(map[Section]bool, len(sections)),
		regions:  make(map[Region]Content),
	}
	for _, section := range sections {
		s.sections[section] = false
	}
	for region, section := range regionSection {
		if _, ok := s.sections[section]; ok {
			s.regions[region] = Content{}
		}
	}
	return s
}

// Has есть ли раздел на экране
func (s *Screen) Has(section Section) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sections[section]
	return ok
}

func (s *Screen) Show(section Section) error {
	return s.setVisible(section, true)
}

func (s *Screen) Hide(section Section) error {
	return s.setVisible(section, false)
}

// Visible виден ли раздел. Отсутствующий раздел не виден.
func (s *Screen) Visible(section Section) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sections[section]
}

// VisibleSections видимые разделы в порядке объявления
func (s *Screen) VisibleSections() []Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []Section
	for _, section := range sectionOrder {
		if s.sections[section] {
			result = append(result, section)
		}
	}
	return result
}

func (s *Screen) setVisible(section Section, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sections[section]; !ok {
		return fmt.Errorf("%w: %s", ErrNoSection, section)
	}
	s.sections[section] = visible
	return nil
}

// SetMessage выводит сообщение в область
func (s *Screen) SetMessage(region Region, msg Message) error {
	return s.setContent(region, Content{Message: &msg})
}

// ClearMessage очищает область
func (s *Screen) ClearMessage(region Region) error {
	return s.setContent(region, Content{})
}

// RenderLinks выводит список ссылок. Пустой список заменяется заглушкой.
func (s *Screen) RenderLinks(blocks []LinkBlock) error {
	if len(blocks) == 0 {
		return s.RenderLinksPlaceholder(NoLinksPlaceholder)
	}
	return s.setContent(RegionLinksList, Content{Links: blocks})
}

// RenderLinksPlaceholder выводит текст вместо списка ссылок
func (s *Screen) RenderLinksPlaceholder(text string) error {
	return s.setContent(RegionLinksList, Content{Placeholder: text})
}

// Content содержимое области
func (s *Screen) Content(region Region) (Content, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.regions[region]
	return c, ok
}

func (s *Screen) setContent(region Region, c Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.regions[region]; !ok {
		return fmt.Errorf("%w: %s", ErrNoRegion, region)
	}
	s.regions[region] = c
	return nil
}

// Alert ставит в очередь модальное сообщение
func (s *Screen) Alert(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, text)
}

// DrainAlerts забирает накопленные модальные сообщения
func (s *Screen) DrainAlerts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	alerts := s.alerts
	s.alerts = nil
	return alerts
}
