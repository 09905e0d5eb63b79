package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"SketchBoard/internal/config"
)

// RunApp shows the board window and blocks until it is closed. A non-empty
// shareLink is shown with a copy button.
func RunApp(conf config.Config, board *BoardWidget, shareLink string) {
	myApp := app.New()
	myWindow := myApp.NewWindow("SketchBoard")
	myWindow.Resize(fyne.NewSize(float32(conf.Width), float32(conf.Height)+120))

	toolbar := NewToolbar(board, conf)

	bottom := []fyne.CanvasObject{board.StatusLabel()}
	if shareLink != "" {
		bottom = append(bottom,
			widget.NewLabel("Share: "+shareLink),
			widget.NewButton("Copy link", func() {
				myWindow.Clipboard().SetContent(shareLink)
				board.SetStatus("Link copied")
			}),
		)
	}

	content := container.NewBorder(toolbar, container.NewHBox(bottom...), nil, nil, board)
	myWindow.SetContent(content)
	myWindow.ShowAndRun()
}
