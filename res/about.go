// Package res holds static text resources for the player window.
package res

// AboutContent contains the Markdown content for the About dialog.
const AboutContent = `A music player that draws what it plays.

**Visualizer modes:**
- Bars: one bar per frequency bin
- Wave: the spectrum as a single line
- Circle: radial bars around a ring

**Keys:**
- Space: play / pause
- 1, 2, 3: bars, wave, circle
- Up / Down: volume

When the live spectrum is unavailable the visualizer keeps moving on simulated data.
`
