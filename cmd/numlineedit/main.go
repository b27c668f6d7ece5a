// Command numlineedit is a TUI viewer and editor for operation-tracking
// number lines.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/zijianstudio/numline-toolkit/pkg/numline"
	"github.com/zijianstudio/numline-toolkit/pkg/numrender"
)

// Mode represents editor mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeDrag        // keyboard-driven endpoint dragging
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
	MsgSuccess
)

// tickInterval drives expiration fades and arrow growth.
const tickInterval = 100 * time.Millisecond

// dragStep is how far one keypress moves a dragged endpoint, in value units.
const dragStep = 0.5

// Editor holds all editor state
type Editor struct {
	screen   tcell.Screen
	model    *numline.NumberLine
	arrows   []*numrender.Arrow
	clock    *numline.StepClock
	scenario *numline.Scenario
	filename string
	modified bool

	mode        Mode
	selected    int // selected operation index
	message     string
	messageType MessageType

	quit chan struct{}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: numlineedit <scenario.json>")
		os.Exit(1)
	}
	filename := os.Args[1]

	scenario, err := numline.LoadScenario(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ed, err := newEditor(scenario, filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ed.run()
}

func newEditor(scenario *numline.Scenario, filename string) (*Editor, error) {
	clock := &numline.StepClock{}
	model, err := numline.New(numline.Options{
		OperationCount: len(scenario.Operations),
		InitialValue:   scenario.StartingValue,
		DisplayedRange: numline.Range{Min: scenario.RangeMin, Max: scenario.RangeMax},
		AutoDeactivate: scenario.AutoDeactivate,
		Clock:          clock,
	})
	if err != nil {
		return nil, err
	}

	ed := &Editor{
		model:    model,
		clock:    clock,
		scenario: scenario,
		filename: filename,
		quit:     make(chan struct{}),
	}

	// Arrows alternate sides like the renderers do.
	for i, op := range model.Operations {
		ed.arrows = append(ed.arrows,
			numrender.NewArrow(model, op, ed.virtualLayout(), clock, numrender.DefaultArrowOptions(i%2 == 0)))
	}

	// Apply scenario state after wiring so activations arm the arrows.
	for i, so := range scenario.Operations {
		opType, _ := numline.ParseOperationType(so.Type)
		op := model.Operations[i]
		op.Type.Set(opType)
		op.Amount.Set(so.Amount)
		op.IsActive.Set(so.Active)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	ed.screen = screen
	return ed, nil
}

func (ed *Editor) run() {
	defer ed.screen.Fini()

	// Periodic ticks drive the expiration fade and arrow growth.
	go func() {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
			case <-ed.quit:
				return
			}
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventInterrupt:
			ed.model.Step(tickInterval.Seconds())
		case *tcell.EventKey:
			if !ed.handleKey(ev) {
				close(ed.quit)
				return
			}
		}
	}
}

// handleKey processes a key event. Returns false to quit.
func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	if ed.mode == ModeDrag {
		return ed.handleDragKey(ev)
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		ed.selectOperation(ed.selected - 1)
		return true
	case tcell.KeyRight:
		ed.selectOperation(ed.selected + 1)
		return true
	}

	op := ed.model.Operations[ed.selected]
	switch ev.Rune() {
	case 'q':
		return false
	case 'a':
		op.IsActive.Set(!op.IsActive.Get())
		ed.modified = true
		ed.setMessage(fmt.Sprintf("operation %d: %s", ed.selected, op), MsgSuccess)
	case 't':
		if op.Type.Get() == numline.Addition {
			op.Type.Set(numline.Subtraction)
		} else {
			op.Type.Set(numline.Addition)
		}
		ed.modified = true
		ed.setMessage(fmt.Sprintf("operation %d type: %s", ed.selected, op.Type.Get()), MsgSuccess)
	case '+', '=':
		op.Amount.Set(op.Amount.Get() + 1)
		ed.modified = true
	case '-', '_':
		op.Amount.Set(op.Amount.Get() - 1)
		ed.modified = true
	case 'd':
		if !op.IsActive.Get() {
			ed.setMessage("cannot drag an inactive operation's endpoint", MsgError)
			return true
		}
		ed.mode = ModeDrag
		ed.model.EndpointFor(op).IsDragging.Set(true)
		ed.setMessage("drag mode: left/right to move, enter/esc to finish", MsgInfo)
	case 'r':
		ed.model.Reset()
		ed.modified = true
		ed.setMessage("reset", MsgSuccess)
	case 's':
		ed.save()
	}
	return true
}

func (ed *Editor) handleDragKey(ev *tcell.EventKey) bool {
	endpoint := ed.model.Endpoint(ed.selected)

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyEnter:
		endpoint.IsDragging.Set(false)
		ed.mode = ModeNormal
		ed.setMessage("", MsgInfo)
		return true
	case tcell.KeyLeft:
		endpoint.Value.Set(endpoint.Value.Get() - dragStep)
		ed.modified = true
		return true
	case tcell.KeyRight:
		endpoint.Value.Set(endpoint.Value.Get() + dragStep)
		ed.modified = true
		return true
	}

	switch ev.Rune() {
	case 'h':
		endpoint.Value.Set(endpoint.Value.Get() - dragStep)
		ed.modified = true
	case 'l':
		endpoint.Value.Set(endpoint.Value.Get() + dragStep)
		ed.modified = true
	}
	return true
}

func (ed *Editor) selectOperation(index int) {
	if index < 0 {
		index = 0
	}
	if index >= len(ed.model.Operations) {
		index = len(ed.model.Operations) - 1
	}
	ed.selected = index
}

func (ed *Editor) setMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
}

// save writes the current model state back to the scenario file.
func (ed *Editor) save() {
	ed.scenario.StartingValue = ed.model.StartingValue.Get()
	for i, op := range ed.model.Operations {
		ed.scenario.Operations[i] = numline.ScenarioOperation{
			Type:   op.Type.Get().String(),
			Amount: op.Amount.Get(),
			Active: op.IsActive.Get(),
		}
	}
	if err := numline.SaveScenario(ed.scenario, ed.filename); err != nil {
		ed.setMessage(fmt.Sprintf("save failed: %v", err), MsgError)
		return
	}
	ed.modified = false
	ed.setMessage(fmt.Sprintf("saved %s", ed.filename), MsgSuccess)
}
