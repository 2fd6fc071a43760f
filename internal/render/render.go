// Package render draws the game onto camera frames with OpenCV.
package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/shapecatch/internal/shapegame"
)

// Preview window layout, relative to the exclusion zone's top-left corner.
const (
	previewCenter   = 90
	previewHalf     = 30
	previewBorder   = 2
	hudFontScale    = 1.0
	hudThickness    = 2
	bannerFontScale = 2.0
	bannerThickness = 3
)

var (
	previewOutline = color.RGBA{R: 200, G: 200, B: 200, A: 0}
	hudColor       = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	bannerColor    = color.RGBA{R: 255, G: 0, B: 0, A: 0}

	// HUD text positions, to the right of the preview window.
	timerOrigin = image.Pt(220, 40)
	scoreOrigin = image.Pt(220, 80)
)

var palette = map[shapegame.Color]color.RGBA{
	shapegame.ColorGreen: {R: 0, G: 255, B: 0, A: 0},
	shapegame.ColorBlue:  {R: 0, G: 0, B: 255, A: 0},
	shapegame.ColorRed:   {R: 255, G: 0, B: 0, A: 0},
	shapegame.ColorBlack: {R: 0, G: 0, B: 0, A: 0},
}

// RGBA returns the drawing color for a palette entry. Unknown colors render white.
func RGBA(c shapegame.Color) color.RGBA {
	if rgba, ok := palette[c]; ok {
		return rgba
	}
	return color.RGBA{R: 255, G: 255, B: 255, A: 0}
}

// Frame draws the field, the goal preview window and the HUD onto img.
func Frame(img *gocv.Mat, snap shapegame.Snapshot) {
	if img == nil || img.Empty() {
		return
	}

	for _, s := range snap.Shapes {
		Shape(img, s.Kind, s.Position, shapegame.RenderHalfWidth, RGBA(s.Color))
	}

	Preview(img, snap.Goal)
	HUD(img, snap)
}

// Shape draws a filled shape centered on pos. Triangles point up with their
// apex at pos, matching how the field has always been drawn.
func Shape(img *gocv.Mat, kind shapegame.Kind, pos image.Point, half int, c color.RGBA) {
	switch kind {
	case shapegame.KindCircle:
		gocv.Circle(img, pos, half, c, -1)
	case shapegame.KindSquare:
		gocv.Rectangle(img, image.Rect(pos.X-half, pos.Y-half, pos.X+half, pos.Y+half), c, -1)
	case shapegame.KindTriangle:
		fillPoly(img, []image.Point{
			pos,
			{X: pos.X - half, Y: pos.Y + half},
			{X: pos.X + half, Y: pos.Y + half},
		}, c)
	}
}

// Preview draws the exclusion zone outline with the goal shape inside.
func Preview(img *gocv.Mat, goal *shapegame.Shape) {
	zone := shapegame.ExclusionZone
	gocv.Rectangle(img, zone, previewOutline, previewBorder)

	if goal == nil {
		return
	}

	origin := zone.Min
	c := RGBA(goal.Color)
	switch goal.Kind {
	case shapegame.KindCircle:
		gocv.Circle(img, origin.Add(image.Pt(previewCenter, previewCenter)), previewHalf, c, -1)
	case shapegame.KindSquare:
		topLeft := origin.Add(image.Pt(previewCenter-previewHalf, previewCenter-previewHalf))
		bottomRight := origin.Add(image.Pt(previewCenter+previewHalf, previewCenter+previewHalf))
		gocv.Rectangle(img, image.Rectangle{Min: topLeft, Max: bottomRight}, c, -1)
	case shapegame.KindTriangle:
		fillPoly(img, []image.Point{
			origin.Add(image.Pt(previewCenter, 50)),
			origin.Add(image.Pt(previewCenter-previewHalf, 130)),
			origin.Add(image.Pt(previewCenter+previewHalf, 130)),
		}, c)
	}
}

// HUD draws the countdown, the score and, once over, the game over banner.
func HUD(img *gocv.Mat, snap shapegame.Snapshot) {
	gocv.PutText(img, TimerText(snap), timerOrigin, gocv.FontHersheySimplex, hudFontScale, hudColor, hudThickness)
	gocv.PutText(img, ScoreText(snap), scoreOrigin, gocv.FontHersheySimplex, hudFontScale, hudColor, hudThickness)

	if !snap.Over {
		return
	}

	size := gocv.GetTextSize(GameOverText, gocv.FontHersheySimplex, bannerFontScale, bannerThickness)
	origin := image.Pt((img.Cols()-size.X)/2, (img.Rows()+size.Y)/2)
	gocv.PutText(img, GameOverText, origin, gocv.FontHersheySimplex, bannerFontScale, bannerColor, bannerThickness)
}

// GameOverText is shown once the countdown reaches zero.
const GameOverText = "Time is Over!"

// TimerText formats the remaining time in whole seconds.
func TimerText(snap shapegame.Snapshot) string {
	return fmt.Sprintf("Time left: %d seconds", snap.Seconds)
}

// ScoreText formats the current score.
func ScoreText(snap shapegame.Snapshot) string {
	return fmt.Sprintf("Your Score: %d", snap.Score)
}

func fillPoly(img *gocv.Mat, pts []image.Point, c color.RGBA) {
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()
	gocv.FillPoly(img, pv, c)
}
