package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2"

	"SketchBoard/internal/config"
	"SketchBoard/internal/net"
	"SketchBoard/internal/state"
	"SketchBoard/internal/ui"
)

const browseTimeout = 3 * time.Second

func main() {
	conf, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if conf.Debug {
		state.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	board, err := newBoard(conf)
	if err != nil {
		log.Fatalf("board: %v", err)
	}

	switch conf.Mode {
	case config.ModeHost:
		runHost(conf, board)
	case config.ModeJoin:
		runClient(conf, board)
	default:
		log.Println("Starting SOLO")
		ui.RunApp(conf, board, "")
	}
}

func newBoard(conf config.Config) (*ui.BoardWidget, error) {
	c := state.NewCanvas()
	if err := c.SetPenWidth(conf.PenWidth); err != nil {
		return nil, err
	}
	if err := c.SetEraserRadius(conf.EraserRadius); err != nil {
		return nil, err
	}
	return ui.NewBoardWidget(c, float32(conf.Width), float32(conf.Height)), nil
}

func runHost(conf config.Config, board *ui.BoardWidget) {
	log.Println("Starting as HOST")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := net.NewHub()
	hub.Sync = board.Sync
	hub.OnOp = board.Merge
	hub.Snapshot = board.Canvas().Snapshot
	board.Canvas().OnOp = hub.Broadcast

	go func() {
		if err := hub.ListenAndServe(ctx, conf.Port); err != nil {
			log.Printf("[HOST] %v", err)
			board.SetStatus(fmt.Sprintf("Sharing stopped: %v", err))
		}
	}()

	server, err := net.Advertise(conf.Name, conf.Port)
	if err != nil {
		log.Printf("[HOST] %v", err)
	} else {
		defer server.Shutdown()
	}

	shareLink := config.ShareLink(net.GetOutgoingIP(), conf.Port)
	log.Printf("[HOST] share link: %s", shareLink)
	ui.RunApp(conf, board, shareLink)
}

func runClient(conf config.Config, board *ui.BoardWidget) {
	log.Println("Starting as CLIENT")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go connectToHost(ctx, conf, board)
	ui.RunApp(conf, board, "")
}

func connectToHost(ctx context.Context, conf config.Config, board *ui.BoardWidget) {
	address := conf.JoinAddress()
	if address == "" {
		board.SetStatus("Looking for shared boards...")
		boards, err := net.Browse(browseTimeout)
		if err != nil {
			log.Printf("[PEER] %v", err)
		}
		if len(boards) == 0 {
			board.SetStatus("No shared board found on the network")
			return
		}
		address = boards[0].Addr
		log.Printf("[PEER] found %q at %s", boards[0].Name, address)
	}

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	peer, err := net.Dial(dialCtx, address)
	cancel()
	if err != nil {
		board.SetStatus(fmt.Sprintf("Connection failed: %v", err))
		return
	}
	defer peer.Close()

	// OnOp is read on the UI goroutine, so it is set there.
	fyne.Do(func() {
		board.Canvas().OnOp = func(op state.Op) {
			if err := peer.Send(op); err != nil {
				log.Printf("[PEER] %v", err)
				board.SetStatus("Failed to send drawing")
			}
		}
	})
	board.SetStatus("Connected to host as " + peer.LocalAddr())

	if err := peer.Run(board.Apply); err != nil {
		board.SetStatus(fmt.Sprintf("Disconnected from host: %v", err))
		return
	}
	board.SetStatus("Host closed the board")
}
