package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	ebiten.SetWindowTitle("Locomotion Viewer")
	ebiten.SetWindowSize(1280, 800)
	if err := ebiten.RunGame(newViewer()); err != nil {
		log.Fatal(err)
	}
}
