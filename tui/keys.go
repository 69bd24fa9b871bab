// This file is part of Gophersynth.
//
// Gophersynth is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gophersynth is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gophersynth.  If not, see <https://www.gnu.org/licenses/>.

package tui

import "github.com/jetsetilly/gophersynth/hardware/panel"

// keyButtons maps keys to front panel buttons.
var keyButtons = map[string]panel.Button{
	"m":     panel.ButtonMulti,
	"e":     panel.ButtonEdit,
	"s":     panel.ButtonSound,
	"g":     panel.ButtonGlobal,
	"h":     panel.ButtonShift,
	"p":     panel.ButtonPlay,
	"k":     panel.ButtonPeek,
	"t":     panel.ButtonStore,
	"left":  panel.ButtonLeft,
	"right": panel.ButtonRight,
	"up":    panel.ButtonUp,
	"down":  panel.ButtonDown,
	"1":     panel.ButtonInst1,
	"2":     panel.ButtonInst2,
	"3":     panel.ButtonInst3,
	"4":     panel.ButtonInst4,
	"P":     panel.ButtonPower,
}

const helpText = "m:multi e:edit s:sound g:global h:shift p:play k:peek t:store 1-4:inst  arrows  tab:encoder -/+:turn  esc:quit"
