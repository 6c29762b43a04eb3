package main

import (
	"fmt"

	"github.com/retrocoderamen/spcdsp/internal/system"
)

// dumpSaveState prints a save state's CPU registers, global DSP controls
// and per-voice state in a fixed columnar layout, the operator-facing
// counterpart to the core's opaque gob-encoded save format.
func dumpSaveState(st system.SaveState) {
	cpu := st.CPU
	fmt.Printf("cpu: pc=$%04x a=$%02x x=$%02x y=$%02x sp=$%02x status=$%02x halted=%v\n",
		cpu.State.PC, cpu.State.A, cpu.State.X, cpu.State.Y, cpu.State.SP, cpu.State.Status, cpu.Halted)

	d := st.DSP
	fmt.Printf("dsp: mvol=(%d,%d) evol=(%d,%d) flags=$%02x echo_feedback=%d\n",
		d.MasterVolume.L, d.MasterVolume.R, d.EchoVolume.L, d.EchoVolume.R, d.Flags, d.EchoFeedback)
	fmt.Printf("dsp: source_dir=$%04x echo_data=$%04x echo_delay=%d pitch_mod=$%02x noise=$%02x echo_on=$%02x\n",
		d.SourceDirAddr, d.EchoDataAddr, d.EchoDelay, d.PitchModulation, d.Noise, d.Echo)

	fmt.Println("voice  vol(l,r)  pitch  src  period  gain   pc(data_addr)  keyon  end  loop")
	for i, v := range d.Voices {
		fmt.Printf("%5d  (%4d,%4d)  %5d  $%02x  %-7s %5d  $%04x          %-5v  %-3v  %v\n",
			i, v.VolL, v.VolR, v.Pitch, v.SourceNumber, periodName(v.PeriodTag), v.Gain, v.DataAddr, v.KeyOn, v.EndBit, v.LoopBit)
	}
}

func periodName(tag uint8) string {
	switch tag {
	case 0:
		return "attack"
	case 1:
		return "decay"
	case 2:
		return "sustain"
	case 3:
		return "gain"
	case 4:
		return "release"
	default:
		return "?"
	}
}
