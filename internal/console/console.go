package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/username/calendar-notes/internal/calendar"
	"github.com/username/calendar-notes/pkg/dateutil"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const clearScreen = "\033[H\033[2J"

const defaultUpcomingLimit = 5

const menu = `Управление:
1 - Предыдущий месяц
2 - Следующий месяц
3 - Выбрать предыдущую неделю
4 - Выбрать следующую неделю
5 - Выбрать конкретную дату
6 - Добавить заметку
7 - Удалить заметку
8 - Перейти к сегодняшней дате
9 - Показать рабочие/выходные дни и праздники
0 - Выход
`

// Options configures the console
type Options struct {
	Color         string
	UpcomingDays  int
	UpcomingLimit int
}

// Console is the interactive menu front-end. It reads one line per answer and
// translates choices into engine calls.
type Console struct {
	engine      *calendar.Engine
	in          *bufio.Scanner
	lines       chan string
	ctx         context.Context
	out         io.Writer
	styles      Styles
	interactive bool
	opts        Options
	logger      *zap.Logger
}

// New creates a console over the given streams
func New(engine *calendar.Engine, in io.Reader, out io.Writer, opts Options, logger *zap.Logger) *Console {
	if opts.UpcomingLimit <= 0 {
		opts.UpcomingLimit = defaultUpcomingLimit
	}

	return &Console{
		engine:      engine,
		in:          bufio.NewScanner(in),
		ctx:         context.Background(),
		out:         out,
		styles:      NewStyles(out, opts.Color),
		interactive: isTerminal(in) && isTerminal(out),
		opts:        opts,
		logger:      logger,
	}
}

func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run shows the screen and handles choices until exit, end of input or ctx cancellation
func (c *Console) Run(ctx context.Context) error {
	c.ctx = ctx

	if err := c.engine.LoadWarning(); err != nil {
		c.printf("Ошибка загрузки заметок: %v\n", err)
		c.pause()
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		c.showMain()

		c.printf("Выберите действие: ")
		input, ok := c.readLine()
		if !ok {
			if ctx.Err() != nil {
				c.logger.Debug("Interrupted while waiting for input")
				return nil
			}
			c.logger.Debug("Input closed, leaving console")
			return c.in.Err()
		}

		if quit := c.Handle(input); quit {
			return nil
		}
	}
}

// Handle processes one menu choice and reports whether the user asked to exit
func (c *Console) Handle(input string) bool {
	input = strings.TrimSpace(input)

	switch input {
	case "1":
		c.navigate(calendar.NavigatePrevMonth)
	case "2":
		c.navigate(calendar.NavigateNextMonth)
	case "3":
		c.navigate(calendar.NavigatePrevWeek)
	case "4":
		c.navigate(calendar.NavigateNextWeek)
	case "5":
		c.selectSpecificDate()
	case "6":
		c.addNote()
	case "7":
		c.deleteNote()
	case "8":
		c.navigate(calendar.NavigateToday)
	case "9":
		c.showStatistics()
	case "0":
		return true
	default:
		// free-form input is tried as a date
		t, err := dateutil.ParseDate(input)
		if err == nil {
			err = c.engine.SelectDate(t.Year(), int(t.Month()), t.Day())
		}
		if err != nil {
			c.printf("Неверная команда!\n")
			c.pause()
		}
	}

	return false
}

func (c *Console) navigate(kind calendar.NavigateKind) {
	if err := c.engine.Navigate(kind); err != nil {
		c.logger.Error("Navigation failed", zap.Stringer("kind", kind), zap.Error(err))
	}
}

func (c *Console) showMain() {
	if c.interactive {
		c.printf(clearScreen)
	}
	c.printf("%s", RenderMonth(c.engine.Render(), c.styles))
	c.printf("%s\n", menu)
}

func (c *Console) selectSpecificDate() {
	c.printf("\n=== ВЫБОР ДАТЫ ===\n\n")

	year, ok := c.askInt("Введите год (например 2024): ")
	if !ok || year < calendar.MinYear || year > calendar.MaxYear {
		c.printf("Неверный год!\n")
		c.pause()
		return
	}

	month, ok := c.askInt("Введите месяц (1-12): ")
	if !ok || month < 1 || month > 12 {
		c.printf("Неверный месяц!\n")
		c.pause()
		return
	}

	daysInMonth := calendar.YearMonth{Year: year, Month: time.Month(month)}.Days()
	c.printf("\nДоступные дни в месяце: 1-%d\n", daysInMonth)

	day, ok := c.askInt("Введите день: ")
	if !ok {
		c.printf("Неверный день! Должен быть от 1 до %d\n", daysInMonth)
		c.pause()
		return
	}

	if err := c.engine.SelectDate(year, month, day); err != nil {
		c.printf("Неверный день! Должен быть от 1 до %d\n", daysInMonth)
		c.pause()
		return
	}

	c.printf("Дата установлена: %s\n", formatDate(c.engine.Selected()))
	c.pause()
}

func (c *Console) addNote() {
	text, ok := c.ask("Введите заметку: ")
	if !ok || strings.TrimSpace(text) == "" {
		return
	}

	if existing, found := c.engine.NoteOn(c.engine.Selected()); found {
		answer, _ := c.ask(fmt.Sprintf("На эту дату уже есть заметка: '%s'. Заменить? (y/n): ", existing.Text))
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			return
		}
	}

	if err := c.engine.AddNote(text); err != nil {
		c.reportNoteError(err)
		return
	}

	c.printf("Заметка добавлена!\n")
	c.pause()
}

func (c *Console) deleteNote() {
	notes := c.engine.NotesOn(c.engine.Selected())
	if len(notes) == 0 {
		c.printf("Нет заметок для удаления!\n")
		c.pause()
		return
	}

	c.printf("Выберите заметку для удаления:\n")
	for i, n := range notes {
		c.printf("%d. %s\n", i+1, n.Text)
	}

	choice, ok := c.askInt("Введите номер заметки (0 - отмена): ")
	if !ok || choice == 0 {
		return
	}

	if err := c.engine.DeleteNote(choice); err != nil {
		c.reportNoteError(err)
		return
	}

	c.printf("Заметка удалена!\n")
	c.pause()
}

func (c *Console) reportNoteError(err error) {
	switch {
	case errors.Is(err, calendar.ErrNotFound):
		c.printf("Неверный выбор!\n")
	case calendar.IsStorageError(err):
		c.printf("Ошибка сохранения заметок: %v\n", err)
		c.printf("Изменение сохранено в памяти и будет записано при следующем сохранении.\n")
	default:
		c.printf("Ошибка: %v\n", err)
	}
	c.pause()
}

func (c *Console) showStatistics() {
	if c.interactive {
		c.printf(clearScreen)
	}

	month := c.engine.CurrentMonth()
	days, limit := c.opts.UpcomingDays, c.opts.UpcomingLimit

	c.printf("%s", RenderStatistics(
		c.engine.MonthStatistics(month.Year, month.Month),
		c.engine.HolidaysIn(month.Year, month.Month),
		c.engine.UpcomingHolidays(days, limit),
	))

	if c.interactive {
		c.printf("\nНажмите Enter для возврата...")
		c.readLine()
	}
}

func (c *Console) ask(prompt string) (string, bool) {
	c.printf("%s", prompt)
	return c.readLine()
}

func (c *Console) askInt(prompt string) (int, bool) {
	line, ok := c.ask(prompt)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, false
	}
	return n, true
}

// readLine waits for the next input line. Reading happens on its own goroutine so an
// interrupt is noticed while the prompt is waiting.
func (c *Console) readLine() (string, bool) {
	if c.lines == nil {
		c.lines = make(chan string)
		go c.scanLines()
	}

	select {
	case line, ok := <-c.lines:
		return line, ok
	case <-c.ctx.Done():
		return "", false
	}
}

func (c *Console) scanLines() {
	defer close(c.lines)
	for c.in.Scan() {
		c.lines <- c.in.Text()
	}
}

// pause waits for Enter on a terminal; scripted input is not consumed
func (c *Console) pause() {
	if !c.interactive {
		return
	}
	c.printf("Нажмите Enter для продолжения...")
	c.readLine()
}

func (c *Console) printf(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(c.out, format, args...); err != nil {
		c.logger.Debug("Failed to write to console", zap.Error(err))
	}
}
