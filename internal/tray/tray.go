//go:build windows

package tray

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"unsafe"

	"fyne.io/systray"
	"github.com/username/calendar-notes/internal/calendar"
	"go.uber.org/zap"
)

var messageBoxW = user32dll.NewProc("MessageBoxW")

const (
	mbOK              = 0x00000000
	mbYesNo           = 0x00000004
	mbIconQuestion    = 0x00000020
	mbIconInformation = 0x00000040
	mbIconWarning     = 0x00000030
	idYes             = 6
)

// App is the system tray front-end
type App struct {
	session *Session
	logger  *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan error

	mu   sync.Mutex
	last Status
}

// NewApp creates a new system tray application. Interrupt and SIGTERM close the tray.
func NewApp(session *Session, logger *zap.Logger) (*App, error) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return &App{
		session: session,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan error, 1),
	}, nil
}

// Run starts the tray and blocks until Quit. The returned error is the final save result.
func (a *App) Run() error {
	systray.Run(a.onReady, a.onExit)
	a.cancel()
	return <-a.done
}

// Stop closes the tray
func (a *App) Stop() {
	a.cancel()
	systray.Quit()
}

func (a *App) onReady() {
	icon, err := calendarIcon()
	if err != nil {
		a.logger.Warn("Failed to build tray icon", zap.Error(err))
	} else {
		systray.SetIcon(icon)
	}
	systray.SetTitle("Календарь")
	systray.SetTooltip("Календарь заметок")

	mPrevMonth := systray.AddMenuItem("Предыдущий месяц", "")
	mNextMonth := systray.AddMenuItem("Следующий месяц", "")
	mPrevWeek := systray.AddMenuItem("Предыдущая неделя", "")
	mNextWeek := systray.AddMenuItem("Следующая неделя", "")
	mToday := systray.AddMenuItem("Сегодня", "")
	mGoto := systray.AddMenuItem("Перейти к дате из буфера обмена", "Дата в формате ДД.ММ.ГГГГ или ГГГГ-ММ-ДД")
	systray.AddSeparator()
	mShowNote := systray.AddMenuItem("Показать заметку", "Заметка выбранного дня")
	mSetNote := systray.AddMenuItem("Заметка из буфера обмена", "Записать текст из буфера обмена в выбранный день")
	mDeleteNote := systray.AddMenuItem("Удалить заметку", "Удалить заметку выбранного дня")
	systray.AddSeparator()
	mStats := systray.AddMenuItem("Статистика месяца", "Рабочие, выходные и праздничные дни")
	mUpcoming := systray.AddMenuItem("Ближайшие праздники", "")
	mSave := systray.AddMenuItem("Сохранить заметки", "Повторить запись заметок")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Выход", "Закрыть приложение")

	// The session goroutine owns the engine
	go func() {
		a.done <- a.session.Run(a.ctx)
	}()

	go a.applyUpdates()

	go func() {
		for {
			var in Intent
			select {
			case <-mPrevMonth.ClickedCh:
				in = Intent{Kind: IntentNavigate, Navigate: calendar.NavigatePrevMonth}
			case <-mNextMonth.ClickedCh:
				in = Intent{Kind: IntentNavigate, Navigate: calendar.NavigateNextMonth}
			case <-mPrevWeek.ClickedCh:
				in = Intent{Kind: IntentNavigate, Navigate: calendar.NavigatePrevWeek}
			case <-mNextWeek.ClickedCh:
				in = Intent{Kind: IntentNavigate, Navigate: calendar.NavigateNextWeek}
			case <-mToday.ClickedCh:
				in = Intent{Kind: IntentNavigate, Navigate: calendar.NavigateToday}
			case <-mGoto.ClickedCh:
				var ok bool
				if in, ok = a.gotoIntent(); !ok {
					continue
				}
			case <-mShowNote.ClickedCh:
				in = Intent{Kind: IntentShowNote}
			case <-mSetNote.ClickedCh:
				var ok bool
				if in, ok = a.setNoteIntent(); !ok {
					continue
				}
			case <-mDeleteNote.ClickedCh:
				var ok bool
				if in, ok = a.deleteNoteIntent(); !ok {
					continue
				}
			case <-mStats.ClickedCh:
				in = Intent{Kind: IntentShowStatistics}
			case <-mUpcoming.ClickedCh:
				in = Intent{Kind: IntentShowUpcoming}
			case <-mSave.ClickedCh:
				in = Intent{Kind: IntentFlush}
			case <-mQuit.ClickedCh:
				a.logger.Info("Quit clicked from tray")
				systray.Quit()
				return
			case <-a.ctx.Done():
				a.logger.Info("Tray context done, closing")
				systray.Quit()
				return
			}

			if err := a.session.Send(a.ctx, in); err != nil {
				return
			}
		}
	}()
}

func (a *App) gotoIntent() (Intent, bool) {
	text, err := readClipboardText()
	if err != nil {
		showMessageBox("Календарь", "Скопируйте дату в буфер обмена: "+err.Error(), mbIconWarning)
		return Intent{}, false
	}
	in, err := SelectDateIntent(text)
	if err != nil {
		showMessageBox("Календарь", "Неверный формат даты", mbIconWarning)
		return Intent{}, false
	}
	return in, true
}

// setNoteIntent takes the note text from the clipboard; the date comes with the intent
func (a *App) setNoteIntent() (Intent, bool) {
	st := a.lastStatus()

	text, err := readClipboardText()
	if err != nil {
		showMessageBox("Календарь", "Скопируйте текст заметки в буфер обмена: "+err.Error(), mbIconWarning)
		return Intent{}, false
	}
	in, err := NoteIntent(st.Selected, text)
	if err != nil {
		showMessageBox("Календарь", "Текст заметки пуст", mbIconWarning)
		return Intent{}, false
	}

	if st.Note != "" {
		question := "Заметка на " + st.Selected.String() + " уже есть:\n" + st.Note + "\n\nЗаменить на:\n" + in.Text + "?"
		if showMessageBox("Календарь", question, mbYesNo|mbIconQuestion) != idYes {
			return Intent{}, false
		}
	}
	return in, true
}

func (a *App) deleteNoteIntent() (Intent, bool) {
	st := a.lastStatus()
	if st.Note == "" {
		showMessageBox("Календарь", "На "+st.Selected.String()+" заметок нет", mbIconInformation)
		return Intent{}, false
	}
	question := "Удалить заметку на " + st.Selected.String() + "?\n" + st.Note
	if showMessageBox("Календарь", question, mbYesNo|mbIconQuestion) != idYes {
		return Intent{}, false
	}
	return Intent{Kind: IntentDeleteNote, Index: 1}, true
}

func (a *App) lastStatus() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

func (a *App) applyUpdates() {
	for {
		select {
		case st := <-a.session.Updates():
			a.mu.Lock()
			a.last = st
			a.mu.Unlock()

			systray.SetTitle(st.Title)
			systray.SetTooltip(st.Tooltip)
			switch {
			case st.Err != nil && calendar.IsStorageError(st.Err):
				showMessageBox("Календарь", "Не удалось сохранить заметки: "+st.Err.Error(), mbIconWarning)
			case st.Err != nil:
				showMessageBox("Календарь", st.Err.Error(), mbIconWarning)
			case st.Message != "":
				showMessageBox(st.Title, st.Message, mbIconInformation)
			}
		case <-a.ctx.Done():
			return
		}
	}
}

func (a *App) onExit() {
	a.logger.Info("System tray exited")
}

func showMessageBox(title, message string, flags uintptr) int {
	titlePtr, _ := syscall.UTF16PtrFromString(title)
	messagePtr, _ := syscall.UTF16PtrFromString(message)
	ret, _, _ := messageBoxW.Call(
		0,
		uintptr(unsafe.Pointer(messagePtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		mbOK|flags,
	)
	return int(ret)
}
