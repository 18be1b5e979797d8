// ABOUTME: CLI tool to list audio output and input devices with their ids.
// ABOUTME: The ids are what audiodeck profiles store in output/input slots.

package main

import (
	"fmt"
	"os"

	"github.com/777genius/audiodeck/internal/audio"
	"github.com/777genius/audiodeck/internal/device"
)

func main() {
	registry := device.NewCache(audio.NewEnumerator())
	devices, err := device.List(registry, nil, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing audio devices: %v\n", err)
		os.Exit(1)
	}

	if len(devices) == 0 {
		fmt.Println("No audio devices found.")
		os.Exit(0)
	}

	for _, t := range device.Types {
		fmt.Printf("%s devices:\n", device.TypeDisplayName(t))
		for i, dev := range registry.ByType(t) {
			defaultMarker := ""
			if dev.IsDefault() {
				defaultMarker = " (default)"
			}
			fmt.Printf("  %d: %s%s\n", i, dev.Name(), defaultMarker)
			fmt.Printf("     id: %s\n", dev.ID())
		}
		fmt.Println()
	}

	fmt.Println("To use a device in a profile:")
	fmt.Println("  audiodeck create NAME -output OUTPUT_ID -input INPUT_ID")
}
