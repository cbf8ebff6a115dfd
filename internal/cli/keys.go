package cli

// Command is a player action bound to a key.
type Command int

const (
	CmdToggle Command = iota + 1
	CmdForward
	CmdBackward
	CmdReset
	CmdLoop
	CmdFaster
	CmdSlower
	CmdQuit
)

func (c Command) String() string {
	switch c {
	case CmdToggle:
		return "toggle"
	case CmdForward:
		return "forward"
	case CmdBackward:
		return "backward"
	case CmdReset:
		return "reset"
	case CmdLoop:
		return "loop"
	case CmdFaster:
		return "faster"
	case CmdSlower:
		return "slower"
	case CmdQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// KeyHelp is the key legend printed under every frame.
const KeyHelp = "space play/pause  →/n next  ←/p prev  r reset  l loop  +/- speed  q quit"

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

// ParseKeys maps raw terminal bytes to commands. Arrow keys arrive as
// ESC [ C (right) and ESC [ D (left); other escape sequences and unbound
// bytes are skipped.
func ParseKeys(buf []byte) []Command {
	var cmds []Command
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == keyEscape {
			if i+2 < len(buf) && buf[i+1] == '[' {
				switch buf[i+2] {
				case 'C':
					cmds = append(cmds, CmdForward)
				case 'D':
					cmds = append(cmds, CmdBackward)
				}
				i += 2
			}
			continue
		}
		if cmd, ok := keyBindings[b]; ok {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

var keyBindings = map[byte]Command{
	' ':      CmdToggle,
	'n':      CmdForward,
	'p':      CmdBackward,
	'r':      CmdReset,
	'l':      CmdLoop,
	'+':      CmdFaster,
	'=':      CmdFaster,
	'-':      CmdSlower,
	'q':      CmdQuit,
	keyCtrlC: CmdQuit,
}
