// ABOUTME: Top-level Bubble Tea AppModel: routes messages between the workflow state, the gateway
// ABOUTME: commands, and the per-view panels. One main panel renders at a time, derived from the state.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oceanpilot/oceanpilot/gateway"
	"github.com/oceanpilot/oceanpilot/workflow"
)

// FocusTarget indicates which region currently has keyboard focus.
type FocusTarget int

const (
	FocusMain FocusTarget = iota
	FocusChat
	FocusHistory
)

// tickInterval drives spinner animation.
const tickInterval = 120 * time.Millisecond

// AppModel composes the panels over the shared workflow state.
type AppModel struct {
	state  *workflow.State
	client *gateway.Client

	history    HistoryPanelModel
	chat       ChatPanelModel
	upload     UploadPanelModel
	preview    PreviewPanelModel
	mapping    MappingPanelModel
	preprocess PreprocessPanelModel
	merge      MergePanelModel
	analysis   AnalysisPanelModel
	playground PlaygroundPanelModel
	soil       SoilPanelModel
	statusBar  StatusBarModel

	focus  FocusTarget
	width  int
	height int
}

// NewAppModel creates the app over a fresh or restored state.
func NewAppModel(state *workflow.State, client *gateway.Client) AppModel {
	return AppModel{
		state:      state,
		client:     client,
		history:    NewHistoryPanelModel(state.History),
		chat:       NewChatPanelModel(state.Transcript, state.Thinking),
		upload:     NewUploadPanelModel(),
		preview:    NewPreviewPanelModel(),
		mapping:    NewMappingPanelModel(),
		preprocess: NewPreprocessPanelModel(),
		merge:      NewMergePanelModel(),
		analysis:   NewAnalysisPanelModel(),
		playground: NewPlaygroundPanelModel(),
		soil:       NewSoilPanelModel(),
		statusBar:  NewStatusBarModel(state.Session.ID()),
	}
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd {
	return TickCmd(tickInterval)
}

// Update implements tea.Model.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case ServerEventMsg:
		return m.handleServerEvent(msg)

	case ChannelClosedMsg:
		m.state.ChannelClosed(msg.Err)
		m.statusBar.SetConnected(false)
		m.chat.Refresh()
		return m, nil

	case UploadResultMsg:
		return m.handleUploadResult(msg)

	case ChatSentMsg:
		if msg.Err != nil {
			m.state.Thinking.End(workflow.OpChat, workflow.OpMapping)
			m.state.Transcript.AppendStatus("Could not reach the agent: " + msg.Err.Error())
			m.chat.Refresh()
		}
		return m, nil

	case ConfirmMappingsResultMsg:
		return m.handleConfirmResult(msg)

	case PreprocessStatsMsg:
		m.preprocess.SetStats(msg.Stats, msg.Err)
		return m, nil

	case ImputationResultMsg:
		m.preprocess.SetResult(msg.Result, msg.Err)
		return m, nil

	case MergeAvailableMsg:
		m.merge.SetFiles(msg.Files, msg.Err)
		return m, nil

	case MergePreviewMsg:
		m.merge.SetPreview(msg.Preview, msg.Err)
		return m, nil

	case MergeExecuteMsg:
		return m.handleMergeResult(msg)

	case AnalysisSuggestionsMsg:
		m.analysis.SetSuggestions(msg.Suggestions, msg.Err)
		return m, nil

	case AnalysisStatisticsMsg:
		m.analysis.SetStats(msg.Stats, msg.Err)
		return m, nil

	case PlaygroundInfoMsg:
		m.playground.SetInfo(msg.Info, msg.Err)
		return m, nil

	case PlaygroundDataMsg:
		m.playground.SetPage(msg.Page, msg.Err)
		return m, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			m.playground.SetNotice("export failed: " + msg.Err.Error())
		} else {
			m.playground.SetNotice("exported to " + msg.Path)
		}
		return m, nil

	case SoilResultMsg:
		m.soil.SetResult(msg.Result, msg.Err)
		return m, nil

	case TickMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		if m.state.Thinking.Any() {
			m.chat.Refresh()
		}
		return m, tea.Batch(cmd, TickCmd(tickInterval))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// layout pushes sizes into every panel.
func (m *AppModel) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	sideWidth := 26
	chatWidth := 40
	mainWidth := m.width - sideWidth - chatWidth
	if mainWidth < 20 {
		mainWidth = 20
	}
	bodyHeight := m.height - 3

	m.history.SetSize(sideWidth, bodyHeight)
	m.chat.SetSize(chatWidth, bodyHeight)
	m.statusBar.SetWidth(m.width)
	for _, p := range []interface{ SetSize(int, int) }{
		&m.upload, &m.preview, &m.mapping, &m.preprocess,
		&m.merge, &m.analysis, &m.playground, &m.soil,
	} {
		p.SetSize(mainWidth, bodyHeight)
	}
}

// handleServerEvent folds a channel event into the state and refreshes the
// panels that render its payload.
func (m AppModel) handleServerEvent(msg ServerEventMsg) (tea.Model, tea.Cmd) {
	m.state.ApplyServerEvent(msg.Event)

	switch msg.Event.(type) {
	case workflow.MappingSuggestionEvent:
		if m.state.ActiveView == workflow.ViewMapping {
			m.mapping.ApplySuggestions(m.state.SuggestedMappings)
		}
	case workflow.AnalysisResultEvent:
		if m.state.ActiveView == workflow.ViewAnalysis {
			m.analysis.SetResult(m.state.AnalysisResult)
		}
	}
	m.chat.Refresh()
	m.statusBar.SetThinking(m.state.Thinking.Any())
	return m, nil
}

func (m AppModel) handleUploadResult(msg UploadResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.upload.SetError(msg.Err)
		return m, nil
	}
	m.upload.SetUploading(false)
	if err := m.state.ApplyUpload(msg.Dataset); err != nil {
		m.upload.SetError(err)
		return m, nil
	}
	m.syncAfterTransition()
	return m, nil
}

func (m AppModel) handleConfirmResult(msg ConfirmMappingsResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// No phase is created on failure; the mapping view stays put.
		m.mapping.SetError(msg.Err)
		return m, nil
	}
	m.mapping.SetConfirming(false)
	source := m.state.ActivePhase()
	if _, err := m.state.ConfirmMappings(msg.Mappings); err != nil {
		m.mapping.SetError(err)
		return m, nil
	}
	m.syncAfterTransition()
	m.preprocess.Reset()
	return m, PreprocessStatsCmd(m.client, source.ID, source.Name, msg.Mappings)
}

func (m AppModel) handleMergeResult(msg MergeExecuteMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.state.Thinking.End(workflow.OpMerge)
		m.merge.SetError(msg.Err)
		return m, nil
	}
	m.state.Thinking.End(workflow.OpMerge)
	m.merge.SetExecuting(false)
	if err := m.state.ApplyMerge(msg.Dataset); err != nil {
		m.merge.SetError(err)
		return m, nil
	}
	m.chat.Refresh()
	m.syncAfterTransition()
	return m, nil
}

// syncAfterTransition points the view panels at the new active phase.
func (m *AppModel) syncAfterTransition() {
	m.state.Normalize()
	m.history.SetActive(m.state.ActivePhaseID)
	m.statusBar.SetView(m.state.ActiveView)
	m.statusBar.SetThinking(m.state.Thinking.Any())

	switch m.state.ActiveView {
	case workflow.ViewPreview:
		m.preview.SetPhase(m.state.ActivePhase())
	case workflow.ViewMapping:
		m.mapping.Reset(m.state.ActivePhase())
		if m.state.SuggestedMappings != nil {
			m.mapping.ApplySuggestions(m.state.SuggestedMappings)
		}
	case workflow.ViewAnalysis:
		if m.state.AnalysisResult != nil {
			m.analysis.SetResult(m.state.AnalysisResult)
		}
	}
}

// dataPhaseID resolves the phase id that owns actual data rows: the active
// phase for ingestion phases, its source for derived ones.
func (m *AppModel) dataPhaseID() string {
	active := m.state.ActivePhase()
	if active == nil {
		return ""
	}
	if active.SourcePhaseID != "" {
		return active.SourcePhaseID
	}
	return active.ID
}

// handleKey routes keyboard input by focus region, then by active view.
func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.focus {
	case FocusChat:
		return m.handleChatKey(msg)
	case FocusHistory:
		return m.handleHistoryKey(msg)
	}
	return m.handleMainKey(msg)
}

func (m AppModel) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.setFocus(FocusMain)
		return m, nil
	case "tab":
		m.setFocus(FocusHistory)
		return m, nil
	case "enter":
		text := m.chat.Consume()
		if text == "" {
			return m, nil
		}
		m.state.Transcript.AppendUser(text)
		m.state.Thinking.Begin(workflow.OpChat)
		m.chat.Refresh()
		m.statusBar.SetThinking(true)
		return m, SendChatCmd(m.client, text, m.state.ActivePhase(), m.state.ActiveView)
	}
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

func (m AppModel) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.setFocus(FocusMain)
		return m, nil
	case "tab":
		m.setFocus(FocusMain)
		return m, nil
	case "up", "k":
		m.history.Move(-1)
		return m, nil
	case "down", "j":
		m.history.Move(1)
		return m, nil
	case "enter":
		id := m.history.Selected()
		if id == "" {
			return m, nil
		}
		if err := m.state.SelectPhase(id); err != nil {
			return m, nil
		}
		m.setFocus(FocusMain)
		m.syncAfterTransition()
		return m, m.loadViewCmd()
	}
	return m, nil
}

// loadViewCmd returns the fetch command the just-entered view needs, if any.
func (m *AppModel) loadViewCmd() tea.Cmd {
	switch m.state.ActiveView {
	case workflow.ViewPreprocessing:
		source := m.state.SourceOf(m.state.ActivePhase())
		if source == nil {
			return nil
		}
		m.preprocess.Reset()
		return PreprocessStatsCmd(m.client, source.ID, source.Name, source.Mappings)
	case workflow.ViewAnalysis:
		id := m.dataPhaseID()
		if id == "" {
			return nil
		}
		m.analysis.Reset()
		if m.state.AnalysisResult != nil {
			m.analysis.SetResult(m.state.AnalysisResult)
		}
		return tea.Batch(
			AnalysisSuggestionsCmd(m.client, id),
			AnalysisStatisticsCmd(m.client, id, m.state.ActivePhaseID),
		)
	}
	return nil
}

func (m AppModel) handleMainKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Views that own text input get the keys first.
	switch m.state.ActiveView {
	case workflow.ViewIngestion:
		return m.handleIngestionKey(msg)
	case workflow.ViewSoil:
		return m.handleSoilKey(msg)
	case workflow.ViewPlayground:
		if m.playground.Searching() {
			return m.handlePlaygroundSearchKey(msg)
		}
	}

	// Focus cycling for the non-typing views.
	if key == "tab" {
		m.setFocus(FocusChat)
		return m, nil
	}
	if key == "q" {
		return m, tea.Quit
	}

	// Global view switches.
	switch key {
	case "g":
		m.state.StartMerge()
		m.merge.Reset()
		m.syncAfterTransition()
		return m, MergeAvailableCmd(m.client)
	case "u":
		m.state.NewIngestion()
		m.syncAfterTransition()
		return m, nil
	case "x":
		if m.dataPhaseID() == "" {
			return m, nil
		}
		m.state.OpenPlayground()
		m.playground.Reset()
		m.syncAfterTransition()
		return m, tea.Batch(
			PlaygroundInfoCmd(m.client, m.dataPhaseID()),
			PlaygroundDataCmd(m.client, m.playground.Query(m.dataPhaseID())),
		)
	case "w":
		m.state.OpenSoil()
		m.syncAfterTransition()
		return m, nil
	}

	switch m.state.ActiveView {
	case workflow.ViewPreview:
		return m.handlePreviewKey(msg)
	case workflow.ViewMapping:
		return m.handleMappingKey(msg)
	case workflow.ViewPreprocessing:
		return m.handlePreprocessKey(msg)
	case workflow.ViewMerge:
		return m.handleMergeKey(msg)
	case workflow.ViewPlayground:
		return m.handlePlaygroundKey(msg)
	}
	return m, nil
}

func (m AppModel) handleIngestionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.setFocus(FocusChat)
		return m, nil
	case "enter":
		path := m.upload.Consume()
		if path == "" {
			return m, nil
		}
		m.upload.SetUploading(true)
		return m, UploadCmd(m.client, path)
	}
	var cmd tea.Cmd
	m.upload, cmd = m.upload.Update(msg)
	return m, cmd
}

func (m AppModel) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "m" {
		if err := m.state.StartMapping(); err != nil {
			return m, nil
		}
		m.syncAfterTransition()
		return m, nil
	}
	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m AppModel) handleMappingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.mapping.Move(-1)
	case "down", "j":
		m.mapping.Move(1)
	case "left", "h":
		m.mapping.CycleRole(-1)
	case "right", "l":
		m.mapping.CycleRole(1)
	case "a":
		m.state.Thinking.Begin(workflow.OpMapping)
		m.chat.Refresh()
		m.statusBar.SetThinking(true)
		return m, SendChatCmd(m.client, "Suggest semantic roles for my columns", m.state.ActivePhase(), m.state.ActiveView)
	case "enter":
		active := m.state.ActivePhase()
		if active == nil {
			return m, nil
		}
		m.mapping.SetConfirming(true)
		return m, ConfirmMappingsCmd(m.client, active.ID, m.mapping.Selections())
	}
	return m, nil
}

func (m AppModel) handlePreprocessKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	source := m.state.SourceOf(m.state.ActivePhase())
	switch msg.String() {
	case "1":
		if source == nil {
			return m, nil
		}
		m.preprocess.SetApplying(true)
		return m, NullImputationCmd(m.client, source.ID, gateway.ActionContinueWithoutImputation, gateway.DefaultNullThreshold)
	case "2":
		if source == nil {
			return m, nil
		}
		m.preprocess.SetApplying(true)
		return m, NullImputationCmd(m.client, source.ID, gateway.ActionRemoveNullColumns, gateway.DefaultNullThreshold)
	case "n":
		if _, err := m.state.StartAnalysis(); err != nil {
			return m, nil
		}
		m.syncAfterTransition()
		return m, m.loadViewCmd()
	}
	return m, nil
}

func (m AppModel) handleMergeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.merge.Move(-1)
	case "down", "j":
		m.merge.Move(1)
	case " ":
		m.merge.Toggle()
	case "s":
		m.merge.CycleStrategy()
	case "left", "h":
		m.merge.CycleJoinColumn(-1)
	case "right", "l":
		m.merge.CycleJoinColumn(1)
	case "p":
		req, ok := m.merge.Request()
		if !ok {
			return m, nil
		}
		return m, MergePreviewCmd(m.client, req)
	case "enter":
		req, ok := m.merge.Request()
		if !ok {
			return m, nil
		}
		m.merge.SetExecuting(true)
		m.state.Thinking.Begin(workflow.OpMerge)
		m.statusBar.SetThinking(true)
		return m, MergeExecuteCmd(m.client, req)
	}
	return m, nil
}

func (m AppModel) handlePlaygroundKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.dataPhaseID()
	switch msg.String() {
	case "/":
		m.playground.StartSearch()
		return m, nil
	case "o":
		m.playground.CycleSort()
		return m, PlaygroundDataCmd(m.client, m.playground.Query(id))
	case "[":
		if m.playground.TurnPage(-1) {
			return m, PlaygroundDataCmd(m.client, m.playground.Query(id))
		}
		return m, nil
	case "]":
		if m.playground.TurnPage(1) {
			return m, PlaygroundDataCmd(m.client, m.playground.Query(id))
		}
		return m, nil
	case "e":
		return m, PlaygroundExportCmd(m.client, "csv", m.playground.Query(id))
	case "j":
		return m, PlaygroundExportCmd(m.client, "json", m.playground.Query(id))
	}
	var cmd tea.Cmd
	m.playground, cmd = m.playground.Update(msg)
	return m, cmd
}

func (m AppModel) handlePlaygroundSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.playground.EndSearch()
		return m, PlaygroundDataCmd(m.client, m.playground.Query(m.dataPhaseID()))
	}
	var cmd tea.Cmd
	m.playground, cmd = m.playground.Update(msg)
	return m, cmd
}

func (m AppModel) handleSoilKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.soil.NextField()
		return m, nil
	case "esc":
		m.setFocus(FocusChat)
		return m, nil
	case "enter":
		polygon, err := m.soil.Polygon()
		if err != nil {
			m.soil.SetError(err)
			return m, nil
		}
		m.soil.SetLoading(true)
		return m, SoilAreaCmd(m.client, polygon, 20)
	}
	var cmd tea.Cmd
	m.soil, cmd = m.soil.Update(msg)
	return m, cmd
}

func (m *AppModel) setFocus(f FocusTarget) {
	m.focus = f
	m.chat.SetFocused(f == FocusChat)
}

// mainView picks the panel for the active view.
func (m AppModel) mainView() string {
	switch m.state.ActiveView {
	case workflow.ViewIngestion:
		return m.upload.View()
	case workflow.ViewPreview:
		return m.preview.View()
	case workflow.ViewMapping:
		return m.mapping.View()
	case workflow.ViewPreprocessing:
		return m.preprocess.View()
	case workflow.ViewMerge:
		return m.merge.View()
	case workflow.ViewPlayground:
		return m.playground.View()
	case workflow.ViewAnalysis:
		return m.analysis.View()
	case workflow.ViewSoil:
		return m.soil.View()
	default:
		return m.upload.View()
	}
}

// View implements tea.Model.
func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < 80 || m.height < 16 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 80x16.", m.width, m.height)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.history.View(), m.mainView(), m.chat.View())
	return body + "\n" + m.statusBar.View()
}
