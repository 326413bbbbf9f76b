// Command loom-demo exercises the layout pipeline: a flex header, a grid of
// bordered panels, a scrollable log pane, form controls, and a modal
// overlay. Quit with Ctrl-C.
package main

import (
	"fmt"
	"os"

	"github.com/loom-tui/loom"
	"golang.org/x/term"
)

func main() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "loom-demo: stdout is not a terminal")
		os.Exit(1)
	}

	app := loom.NewApp()
	t := app.Tree

	root := t.NewNode(loom.KindBox)
	t.Node(root).Display = loom.DisplayFlex
	t.Node(root).Flex = loom.FlexProps{Direction: loom.Column}
	t.SetRoot(root)

	header := t.NewNode(loom.KindText)
	hn := t.Node(header)
	hn.Text = []loom.Span{
		loom.Bold("loom demo"),
		{Text: "  Tab cycles focus, wheel scrolls, Ctrl-C quits"},
	}
	hn.Height = loom.Cells(1)
	hn.Style = loom.Style{}.Background(loom.Blue).Foreground(loom.BrightWhite)
	hn.Padding = loom.Sides{Left: 1}
	t.AppendChild(root, header)

	body := t.NewNode(loom.KindBox)
	bn := t.Node(body)
	bn.Display = loom.DisplayGrid
	bn.Grid = loom.GridProps{
		Cols:   []loom.Track{loom.Fr(1), loom.Fr(2)},
		ColGap: 1,
	}
	bn.Item.Grow = 1
	t.AppendChild(root, body)

	form := t.NewNode(loom.KindBox)
	fn := t.Node(form)
	fn.Border = loom.Border(loom.LineRounded)
	fn.Padding = loom.UniformSides(1)
	t.AppendChild(body, form)

	name := t.NewNode(loom.KindInput)
	t.Node(name).Value = "type here"
	t.Node(name).Height = loom.Cells(1)
	t.AppendChild(form, name)

	agree := t.NewNode(loom.KindCheckbox)
	t.Node(agree).Label = "enable color"
	t.Node(agree).Checked = true
	t.AppendChild(form, agree)

	for _, opt := range []string{"compact", "cozy", "comfortable"} {
		r := t.NewNode(loom.KindRadio)
		t.Node(r).Label = opt
		t.AppendChild(form, r)
	}

	pick := t.NewNode(loom.KindDropdown)
	t.Node(pick).Options = []string{"single", "rounded", "double", "thick"}
	t.Node(pick).Selected = 1
	t.AppendChild(form, pick)

	applyBtn := t.NewNode(loom.KindButton)
	t.Node(applyBtn).Label = "Apply"
	t.AppendChild(form, applyBtn)

	logPane := t.NewNode(loom.KindScroll)
	ln := t.Node(logPane)
	ln.Border = loom.Border(loom.LineSingle)
	t.AppendChild(body, logPane)

	for i := 0; i < 100; i++ {
		line := t.NewNode(loom.KindText)
		t.Node(line).Text = []loom.Span{{Text: fmt.Sprintf("log line %3d", i)}}
		t.Node(line).Height = loom.Cells(1)
		t.AppendChild(logPane, line)
	}

	app.Input.OnClick = func(id loom.NodeID) {
		if id == applyBtn {
			showModal(app, t)
		}
	}

	if err := app.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "loom-demo:", err)
		os.Exit(1)
	}
	if dump := loom.DumpDebugLog(); dump != "" {
		fmt.Fprintln(os.Stderr, dump)
	}
}

func showModal(app *loom.App, t *loom.Tree) {
	modal := t.NewNode(loom.KindOverlay)
	mn := t.Node(modal)
	mn.Backdrop = true
	mn.Position = loom.PositionFixed
	mn.Left = loom.Percent(30)
	mn.Top = loom.Percent(35)
	mn.Width = loom.Percent(40)
	mn.Height = loom.Cells(7)
	mn.Border = loom.Border(loom.LineDouble)
	mn.Padding = loom.UniformSides(1)

	msg := t.NewNode(loom.KindText)
	t.Node(msg).Text = []loom.Span{{Text: "Settings applied."}}
	t.AppendChild(modal, msg)

	ok := t.NewNode(loom.KindButton)
	t.Node(ok).Label = "OK"
	t.AppendChild(modal, ok)

	t.AppendChild(t.Root(), modal)

	prev := app.Input.OnClick
	app.Input.OnClick = func(id loom.NodeID) {
		if id == ok {
			t.Detach(modal)
			app.Input.OnClick = prev
			app.Invalidate()
			return
		}
		if prev != nil {
			prev(id)
		}
	}
	app.Invalidate()
}
