package ui

import (
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// SafeModel оборачивает tea.Model и перехватывает паники в Init, Update и View.
// После паники экран показывает ошибку и ждёт выхода.
type SafeModel struct {
	model  tea.Model
	logger *zap.Logger
	failed error
}

// NewSafeModel creates a new panic-recovering wrapper
func NewSafeModel(model tea.Model, logger *zap.Logger) *SafeModel {
	return &SafeModel{model: model, logger: logger}
}

func (sm *SafeModel) Init() (cmd tea.Cmd) {
	defer sm.recoverFromPanic("Init", &cmd)
	return sm.model.Init()
}

func (sm *SafeModel) Update(msg tea.Msg) (_ tea.Model, cmd tea.Cmd) {
	if sm.failed != nil {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() != "" {
			return sm, tea.Quit
		}
		return sm, nil
	}

	defer sm.recoverFromPanic("Update", &cmd)
	var next tea.Model
	next, cmd = sm.model.Update(msg)
	if next != nil {
		sm.model = next
	}
	return sm, cmd
}

func (sm *SafeModel) View() (view string) {
	if sm.failed != nil {
		return NewRenderer().Error(sm.failed) + "\n\npress any key to exit"
	}
	defer func() {
		if r := recover(); r != nil {
			sm.fail("View", r)
			view = NewRenderer().Error(sm.failed)
		}
	}()
	return sm.model.View()
}

// Err returns the recovered panic, if any.
func (sm *SafeModel) Err() error {
	return sm.failed
}

func (sm *SafeModel) recoverFromPanic(method string, cmd *tea.Cmd) {
	if r := recover(); r != nil {
		sm.fail(method, r)
		*cmd = nil
	}
}

func (sm *SafeModel) fail(method string, r interface{}) {
	sm.logger.Error("UI method panic recovered",
		zap.String("method", method),
		zap.Any("panic", r),
		zap.String("stack", string(debug.Stack())))
	sm.failed = fmt.Errorf("ui %s panic: %v", method, r)
}
