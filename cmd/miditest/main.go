package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-stepsynth/config"
	surface "go-stepsynth/midi"
	"go-stepsynth/panel"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "monitor":
		hint := ""
		if len(os.Args) > 2 {
			hint = os.Args[2]
		}
		monitor(hint)
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list            - List all MIDI ports")
	fmt.Println("  monitor [hint]  - Print events from matching inputs and the panel state they map to")
	fmt.Println("  poll            - Poll for device changes")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ins := midi.GetInPorts()
		outs := midi.GetOutPorts()
		ch <- result{ins: ins, outs: outs}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

func monitor(hint string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	m := cfg.MIDI
	if hint == "" {
		hint = m.PortHint
	}
	p := panel.New()
	s := surface.NewSurface(p, surface.Mapping{
		Channel:     m.Channel,
		TempoCC:     m.TempoCC,
		ScaleCC:     m.ScaleCC,
		NoteCC:      m.NoteCC,
		DirectionCC: m.DirectionCC,
		RecordNotes: m.RecordNotes,
	})
	fmt.Printf("Mapping: tempo=CC%d scale=CC%d note=CC%d direction=CC%d record=%v channel=%d\n",
		m.TempoCC, m.ScaleCC, m.NoteCC, m.DirectionCC, m.RecordNotes, m.Channel)

	var stops []func()
	for _, in := range midi.GetInPorts() {
		if !strings.Contains(strings.ToLower(in.String()), strings.ToLower(hint)) {
			continue
		}
		name := in.String()
		stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
			ev, ok := surface.FromMessage(msg)
			if !ok {
				fmt.Printf("[%s] %s (ignored)\n", name, msg)
				return
			}
			mapped := s.Handle(ev)
			fmt.Printf("[%s] %-8s ch=%-2d num=%-3d val=%-3d mapped=%v panel=%+v\n",
				name, ev.Kind, ev.Channel+1, ev.Number, ev.Value, mapped, p.Snapshot())
		})
		if err != nil {
			fmt.Printf("Error opening %s: %v\n", name, err)
			continue
		}
		fmt.Printf("Listening on %s\n", name)
		stops = append(stops, stop)
	}
	if len(stops) == 0 {
		fmt.Println("No matching input ports")
		return
	}

	fmt.Println("Ctrl+C to exit.")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	for _, stop := range stops {
		stop()
	}
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect a control surface to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		ins := midi.GetInPorts()
		outs := midi.GetOutPorts()

		// Build current state
		var inNames, outNames []string
		for _, p := range ins {
			inNames = append(inNames, p.String())
		}
		for _, p := range outs {
			outNames = append(outNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}
