// Wind field preview tool - interactive visualization with sliders.
//
// Usage: go run ./cmd/windpreview
package main

import (
	"fmt"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/unravel/config"
	"github.com/pthm-cable/unravel/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewW     = 640
	previewH     = 400
	panelWidth   = windowWidth - previewW - 30

	gridCols = 32
	gridRows = 20
)

// WindParams holds the tunable wind settings.
type WindParams struct {
	Source    string
	Seed      int64
	Scale     float32
	Strength  float32
	ClockStep float32
}

func defaultParams(cfg *config.Config) WindParams {
	return WindParams{
		Source:    cfg.Wind.Source,
		Seed:      cfg.Wind.Seed,
		Scale:     float32(cfg.Wind.Scale),
		Strength:  float32(cfg.Wind.Strength),
		ClockStep: float32(cfg.Physics.ClockStep),
	}
}

func main() {
	cfg := config.Default()

	rl.InitWindow(windowWidth, windowHeight, "Wind Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams(cfg)
	noise, err := systems.NewNoiseSource(params.Source, params.Seed)
	if err != nil {
		log.Fatalf("creating noise: %v", err)
	}

	var clock float64
	animating := true
	subSteps := cfg.Physics.SubSteps

	for !rl.WindowShouldClose() {
		if animating {
			clock += float64(params.ClockStep) * float64(subSteps)
		}

		field := sampleWind(noise, previewW, previewH, gridCols, gridRows, clock,
			float64(params.Scale), float64(params.Strength))

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		drawField(field, float64(params.Strength))
		rl.DrawRectangleLines(10, 10, previewW, previewH, rl.DarkGray)

		lo, hi, mean := fieldRange(field)
		statsY := int32(previewH + 25)
		rl.DrawText(fmt.Sprintf("Min: %.4f  Max: %.4f  Avg: %.4f", lo, hi, mean), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Clock: %.3f  Source: %s", clock, params.Source), 15, statsY+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewW + 20)
		panelY := float32(10)

		rl.DrawText("Wind Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		params.Scale = slider(&panelY, panelX, "Scale (spatial frequency)", "%.4f", params.Scale, 0.001, 0.03)
		params.Strength = slider(&panelY, panelX, "Strength (peak acceleration)", "%.3f", params.Strength, 0, 0.2)
		params.ClockStep = slider(&panelY, panelX, "Clock step (per sub-step)", "%.4f", params.ClockStep, 0, 0.02)

		newSeed := slider(&panelY, panelX, "Seed", "%.0f", float32(params.Seed), 0, 9999)
		if int64(newSeed) != params.Seed {
			params.Seed = int64(newSeed)
			noise, _ = systems.NewNoiseSource(params.Source, params.Seed)
		}
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Stop", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Source: "+params.Source) {
			params.Source = nextSource(params.Source)
			noise, _ = systems.NewNoiseSource(params.Source, params.Seed)
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Reset Clock") {
			clock = 0
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams(cfg)
			noise, _ = systems.NewNoiseSource(params.Source, params.Seed)
			clock = 0
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := yamlSnippet(params)
		for _, line := range yaml {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(joinLines(yaml))
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider at *y, advances *y and returns the new value.
func slider(y *float32, x float32, label, format string, value, lo, hi float32) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		"", "",
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v
}

// drawField draws one horizontal arrow per sample, coloured by direction.
func drawField(field []float64, strength float64) {
	cellW := float32(previewW) / gridCols
	cellH := float32(previewH) / gridRows
	for row := 0; row < gridRows; row++ {
		for col := 0; col < gridCols; col++ {
			v := field[row*gridCols+col]
			cx := 10 + (float32(col)+0.5)*cellW
			cy := 10 + (float32(row)+0.5)*cellH

			length := float32(0)
			if strength > 0 {
				length = float32(v/strength) * cellW * 0.45
			}
			c := rl.Blue
			if v < 0 {
				c = rl.Red
			}
			end := rl.Vector2{X: cx + length, Y: cy}
			rl.DrawLineEx(rl.Vector2{X: cx, Y: cy}, end, 2, c)
			rl.DrawCircleV(end, 2, c)
		}
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
