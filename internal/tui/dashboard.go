// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/orchestra/internal/poller"
	"github.com/MKhiriev/orchestra/internal/service"
	"github.com/MKhiriev/orchestra/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	eventBuffer     = 32
	statusLifetime  = 2 * time.Second
	refreshInterval = time.Second
)

// DashboardModel shows the live metrics of the account and the state of the
// current generator job.
//
// Metrics and job callbacks arrive from other goroutines. They are queued on
// events and read back one at a time by waitForEvent, so Update stays the
// only place the model changes.
type DashboardModel struct {
	ctx       context.Context
	auth      service.AuthService
	generator service.GeneratorService
	metrics   service.MetricsService
	events    chan tea.Msg
	now       func() time.Time
	copyFn    func(string) error
	buildInfo models.AppBuildInfo

	user       models.User
	snapshot   models.Metrics
	hasMetrics bool

	job      models.Job
	tracking bool
	jobErr   string

	prompt    textinput.Model
	composing bool
	spinner   spinner.Model
	bar       progress.Model

	status        string
	showError     bool
	errorOverlay  errorOverlayModel
	showBuildInfo bool
	expired       bool
}

// NewDashboardModel creates the dashboard for user. The caller feeds metrics
// to it through [DashboardModel.OnMetrics].
func NewDashboardModel(ctx context.Context, services *service.ClientServices, user models.User, buildInfo models.AppBuildInfo) *DashboardModel {
	prompt := newInput("опишите бэкенд, который нужно сгенерировать", 2000, false)
	prompt.Width = 60

	return &DashboardModel{
		ctx:       ctx,
		auth:      services.AuthService,
		generator: services.GeneratorService,
		metrics:   services.MetricsService,
		events:    make(chan tea.Msg, eventBuffer),
		now:       time.Now,
		copyFn:    clipboard.WriteAll,
		buildInfo: buildInfo,
		user:      user,
		prompt:    prompt,
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// OnMetrics queues a snapshot for the dashboard. When the queue is full the
// snapshot is dropped; the next one replaces it anyway.
func (d *DashboardModel) OnMetrics(m models.Metrics) {
	select {
	case d.events <- metricsMsg(m):
	default:
	}
}

// SessionExpired reports whether the dashboard closed because the backend
// rejected the session.
func (d *DashboardModel) SessionExpired() bool {
	return d.expired
}

func (d *DashboardModel) Init() tea.Cmd {
	return tea.Batch(d.waitForEvent(), d.cmdLastJob(), cmdTick())
}

func (d *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return d.updateKeys(msg)

	case metricsMsg:
		d.snapshot = models.Metrics(msg)
		d.hasMetrics = true
		return d, d.waitForEvent()

	case jobUpdateMsg:
		d.job = models.Job(msg)
		return d, d.waitForEvent()

	case jobDoneMsg:
		d.job = models.Job(msg)
		d.tracking = false
		if d.job.Status == models.JobFailed {
			d.jobErr = valueOrDash(d.job.Error)
		}
		return d, d.waitForEvent()

	case jobErrMsg:
		d.tracking = false
		if errors.Is(msg.err, service.ErrSessionExpired) {
			d.expired = true
			return d, tea.Quit
		}
		d.jobErr = humanizeError(msg.err)
		return d, d.waitForEvent()

	case lastJobMsg:
		d.job = models.Job{ID: msg.job.JobID, Status: models.JobPending}
		return d, d.startTracking(msg.job.JobID)

	case jobStartedMsg:
		if msg.err != nil {
			d.showErrorf(humanizeError(msg.err))
			return d, nil
		}
		d.job = msg.job
		return d, d.startTracking(msg.job.ID)

	case userRefreshedMsg:
		if errors.Is(msg.err, service.ErrSessionExpired) {
			d.expired = true
			return d, tea.Quit
		}
		if msg.err != nil {
			d.showErrorf(humanizeError(msg.err))
			return d, nil
		}
		d.user = msg.user
		d.status = "Профиль обновлён"
		return d, cmdClearStatus()

	case copiedMsg:
		if msg.err != nil {
			d.status = "Не удалось скопировать: " + msg.err.Error()
		} else {
			d.status = "Скопировано!"
		}
		return d, cmdClearStatus()

	case clearStatusMsg:
		d.status = ""
		return d, nil

	case tickMsg:
		return d, cmdTick()

	case spinner.TickMsg:
		if !d.tracking {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	}

	if d.composing {
		var cmd tea.Cmd
		d.prompt, cmd = d.prompt.Update(msg)
		return d, cmd
	}
	return d, nil
}

func (d *DashboardModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return d, tea.Quit
	}

	if d.showError {
		if key.Matches(msg, keys.enter) || key.Matches(msg, keys.esc) {
			d.showError = false
			d.errorOverlay.message = ""
		}
		return d, nil
	}

	if d.showBuildInfo {
		if key.Matches(msg, keys.esc) || key.Matches(msg, keys.version) {
			d.showBuildInfo = false
		}
		return d, nil
	}

	if d.composing {
		switch {
		case key.Matches(msg, keys.esc):
			d.composing = false
			d.prompt.Blur()
			return d, nil
		case key.Matches(msg, keys.enter):
			text := strings.TrimSpace(d.prompt.Value())
			if text == "" {
				d.status = "Пустой запрос"
				return d, nil
			}
			d.composing = false
			d.prompt.Blur()
			d.prompt.Reset()
			return d, d.cmdGenerate(models.GenerateRequest{Prompt: text})
		}

		var cmd tea.Cmd
		d.prompt, cmd = d.prompt.Update(msg)
		return d, cmd
	}

	switch {
	case key.Matches(msg, keys.quit):
		return d, tea.Quit
	case key.Matches(msg, keys.newJob):
		if d.tracking {
			d.status = "Генерация уже идёт"
			return d, cmdClearStatus()
		}
		d.composing = true
		d.prompt.Focus()
		return d, textinput.Blink
	case key.Matches(msg, keys.copy):
		target := d.copyTarget()
		if target == "" {
			d.status = "Нечего копировать"
			return d, cmdClearStatus()
		}
		return d, d.cmdCopy(target)
	case key.Matches(msg, keys.refresh):
		return d, d.cmdRefreshUser()
	case key.Matches(msg, keys.version):
		d.showBuildInfo = true
	}

	return d, nil
}

func (d *DashboardModel) View() string {
	if d.showBuildInfo {
		return appStyle.Render(renderBuildInfoWindow(d.buildInfo))
	}

	var b strings.Builder
	b.WriteString(panelStyle.Render(d.metricsView()))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(d.jobView()))

	if d.composing {
		b.WriteString("\n\nНовая генерация:\n[")
		b.WriteString(d.prompt.View())
		b.WriteString("]\n")
		b.WriteString(helpStyle.Render("enter: запустить │ esc: отмена"))
	}
	if d.status != "" {
		b.WriteString("\n\n")
		b.WriteString(d.status)
	}

	body := renderPage(d.title(), b.String(), "n: новая генерация │ c: копировать │ r: обновить профиль │ v: версия │ q: выход")
	if d.showError {
		body += "\n\n" + d.errorOverlay.View()
	}
	return appStyle.Render(body)
}

func (d *DashboardModel) title() string {
	who := valueOrDash(d.user.Name)
	if d.user.Email != "" {
		who = fmt.Sprintf("%s <%s>", who, d.user.Email)
	}
	plan := d.user.Plan
	if plan == "" {
		plan = "free"
	}
	return fmt.Sprintf("ORCHESTRA  %s  [%s]", who, plan)
}

func (d *DashboardModel) metricsView() string {
	state := offlineStyle.Render("○ нет связи")
	if d.metrics.Connected() {
		state = liveStyle.Render("● онлайн")
	}

	lines := []string{"Метрики  " + state}
	if !d.hasMetrics {
		return strings.Join(append(lines, "Ожидание данных..."), "\n")
	}

	m := d.snapshot
	lines = append(lines,
		kv("Активные агенты", formatCount(m.ActiveAgents)),
		kv("В очереди", formatCount(m.QueuedTasks)),
		kv("Выполнено", formatCount(m.CompletedTasks)),
		kv("Ошибки", formatCount(m.FailedTasks)),
		kv("Токены", formatCount(m.TokensUsed)),
		kv("Стоимость", formatUSD(m.CostUSD)),
		kv("Экономия", formatUSD(m.SavingsUSD)),
		kv("Средняя задержка", formatLatency(m.AvgLatencyMS)),
		kv("Обновлено", formatSince(m.Timestamp, d.now())),
	)
	return strings.Join(lines, "\n")
}

func (d *DashboardModel) jobView() string {
	lines := []string{"Генерация"}
	if d.job.ID == "" {
		return strings.Join(append(lines, "Нет задач. Нажмите n, чтобы начать."), "\n")
	}

	status := string(d.job.Status)
	if d.tracking {
		status = d.spinner.View() + " " + status
	}

	lines = append(lines,
		kv("Задача", d.job.ID),
		kv("Статус", status),
		kv("Шаг", valueOrDash(d.job.Step)),
		d.bar.ViewAs(d.job.Progress),
	)
	if d.job.ResultURL != "" {
		lines = append(lines, kv("Результат", fitText(d.job.ResultURL, 60)))
	}
	if d.jobErr != "" {
		lines = append(lines, errorStyle.Render("Ошибка: "+d.jobErr))
	}
	return strings.Join(lines, "\n")
}

func (d *DashboardModel) copyTarget() string {
	if d.job.ResultURL != "" {
		return d.job.ResultURL
	}
	return d.job.ID
}

func (d *DashboardModel) showErrorf(message string) {
	d.showError = true
	d.errorOverlay.message = message
}

// emit queues a job event. It gives up when the dashboard is gone.
func (d *DashboardModel) emit(msg tea.Msg) {
	select {
	case d.events <- msg:
	case <-d.ctx.Done():
	}
}

func (d *DashboardModel) waitForEvent() tea.Cmd {
	events := d.events
	done := d.ctx.Done()

	return func() tea.Msg {
		select {
		case msg := <-events:
			return msg
		case <-done:
			return nil
		}
	}
}

func (d *DashboardModel) startTracking(jobID string) tea.Cmd {
	d.tracking = true
	d.jobErr = ""

	ctx := d.ctx
	generator := d.generator
	cb := poller.Callbacks{
		OnUpdate:   func(j models.Job) { d.emit(jobUpdateMsg(j)) },
		OnComplete: func(j models.Job) { d.emit(jobDoneMsg(j)) },
		OnError:    func(err error) { d.emit(jobErrMsg{err: err}) },
	}

	track := func() tea.Msg {
		generator.Track(ctx, jobID, cb)
		return nil
	}
	return tea.Batch(track, d.spinner.Tick)
}

func (d *DashboardModel) cmdLastJob() tea.Cmd {
	ctx := d.ctx
	generator := d.generator

	return func() tea.Msg {
		job, err := generator.LastJob(ctx)
		if err != nil {
			return nil
		}
		return lastJobMsg{job: job}
	}
}

func (d *DashboardModel) cmdGenerate(req models.GenerateRequest) tea.Cmd {
	ctx := d.ctx
	generator := d.generator

	return func() tea.Msg {
		job, err := generator.Generate(ctx, req)
		return jobStartedMsg{job: job, err: err}
	}
}

func (d *DashboardModel) cmdRefreshUser() tea.Cmd {
	ctx := d.ctx
	auth := d.auth

	return func() tea.Msg {
		user, err := auth.CurrentUser(ctx)
		return userRefreshedMsg{user: user, err: err}
	}
}

func (d *DashboardModel) cmdCopy(text string) tea.Cmd {
	copyFn := d.copyFn
	return func() tea.Msg {
		return copiedMsg{err: copyFn(text)}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(statusLifetime, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// cmdTick re-renders the dashboard so relative times and the connection
// state stay current.
func cmdTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return tickMsg{} })
}
