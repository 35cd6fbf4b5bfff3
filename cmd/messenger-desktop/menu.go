package main

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"

	"github.com/Ahsanlashari87/messenger-mac/internal/ui"
)

// buildMenu builds the application menu. Callbacks run after startup, so they
// can rely on the shell being set.
func (a *App) buildMenu() *menu.Menu {
	appMenu := menu.NewMenu()
	if runtime.GOOS == "darwin" {
		appMenu.Append(menu.AppMenu())
		appMenu.Append(menu.EditMenu())
	}

	view := appMenu.AddSubmenu("View")
	view.AddText("Toggle Sidebar", keys.Combo("s", keys.CmdOrCtrlKey, keys.ShiftKey), func(_ *menu.CallbackData) {
		a.onToggleSidebar()
	})

	conversation := appMenu.AddSubmenu("Conversation")
	conversation.AddText("New Message", keys.CmdOrCtrl("n"), func(_ *menu.CallbackData) {
		a.onNewMessage()
	})
	conversation.AddSeparator()
	for n := 1; n <= ui.MaxConversationShortcut; n++ {
		conversation.AddText(fmt.Sprintf("Conversation %d", n), keys.CmdOrCtrl(fmt.Sprint(n)), func(_ *menu.CallbackData) {
			a.onOpenConversation(n)
		})
	}

	if runtime.GOOS != "darwin" {
		file := appMenu.AddSubmenu("File")
		file.AddText("Quit", keys.CmdOrCtrl("q"), func(_ *menu.CallbackData) {
			if a.ctx != nil {
				quitWindow(a.ctx)
			}
		})
	}
	return appMenu
}

func (a *App) onToggleSidebar() {
	if a.shell == nil {
		return
	}
	if _, err := a.shell.ToggleSidebar(); err != nil {
		a.logger.Warn("failed to toggle sidebar", zap.Error(err))
	}
}

func (a *App) onNewMessage() {
	if a.shell != nil {
		a.shell.NewMessage()
	}
}

func (a *App) onOpenConversation(n int) {
	if a.shell == nil {
		return
	}
	if err := a.shell.OpenConversation(n); err != nil {
		a.logger.Warn("failed to open conversation", zap.Error(err))
	}
}
