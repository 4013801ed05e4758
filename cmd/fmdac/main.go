// fmdac configures the FM modulator latch from a host through a USB-serial
// SPI bridge, and encodes/decodes latch frames offline.
package main

import "os"

func main() {
	if err := newApp(os.Stdout, os.Stderr).rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
