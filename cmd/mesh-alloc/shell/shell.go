// Package shell provides the command interpreter of mesh-alloc, used both
// for one-shot commands and for the interactive readline prompt.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"github.com/mash-protocol/mesh-go/pkg/mesh"
)

// ErrQuit is returned by Exec for the quit command.
var ErrQuit = errors.New("quit")

// Shell runs allocator commands against a network.
type Shell struct {
	net *mesh.Network
	out io.Writer
	rl  *readline.Instance

	// selected is the provisioner commands allocate for. The zero UUID
	// selects the network's local provisioner.
	selected uuid.UUID
}

// New creates a shell that writes command output to out.
func New(net *mesh.Network, out io.Writer) *Shell {
	return &Shell{net: net, out: out}
}

// NewInteractive creates a shell reading commands from a readline prompt.
func NewInteractive(net *mesh.Network) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "alloc> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{net: net, out: rl.Stdout(), rl: rl}, nil
}

// Stdout returns a writer that coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Use selects the provisioner, by name or UUID, that later commands
// allocate for.
func (s *Shell) Use(ref string) error {
	for _, p := range s.net.Provisioners() {
		if p.Name == ref || p.UUID.String() == ref {
			s.selected = p.UUID
			return nil
		}
	}
	return fmt.Errorf("%w: %s", mesh.ErrProvisionerNotFound, ref)
}

// Run starts the interactive command loop. cancel is called when the user
// quits.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		if err := s.Exec(args); err != nil {
			if errors.Is(err, ErrQuit) {
				fmt.Fprintln(s.out, "Exiting...")
				cancel()
				return
			}
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

// Exec runs a single command given as its name followed by its arguments.
func (s *Shell) Exec(args []string) error {
	if len(args) == 0 {
		return errors.New("no command")
	}
	cmd := strings.ToLower(args[0])
	args = args[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()
		return nil
	case "quit", "exit", "q":
		return ErrQuit

	case "status":
		return s.cmdStatus()
	case "provisioners":
		return s.cmdProvisioners()
	case "use":
		if len(args) != 1 {
			return errors.New("usage: use <provisioner>")
		}
		if err := s.Use(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Using provisioner %s\n", args[0])
		return nil
	case "add-provisioner":
		return s.cmdAddProvisioner(args)
	case "nodes":
		return s.cmdNodes()
	case "groups":
		return s.cmdGroups()
	case "scenes":
		return s.cmdScenes()
	case "exclusions":
		return s.cmdExclusions()

	case "next-unicast":
		return s.cmdNextUnicast(args)
	case "next-group":
		return s.cmdNextGroup(args)
	case "next-scene":
		return s.cmdNextScene(args)
	case "free-unicast":
		return s.cmdFreeUnicast(args)
	case "free-groups":
		return s.cmdFreeGroups(args)
	case "group-range", "unicast-range", "scene-range":
		return s.cmdRange(cmd, args)
	case "available":
		return s.cmdAvailable(args)

	case "provision":
		return s.cmdProvision(args)
	case "remove-node":
		return s.cmdRemoveNode(args)
	case "create-group":
		return s.cmdCreateGroup(args)
	case "add-group":
		return s.cmdAddGroup(args)
	case "remove-group":
		return s.cmdRemoveGroup(args)
	case "create-scene":
		return s.cmdCreateScene(args)
	case "remove-scene":
		return s.cmdRemoveScene(args)
	case "claim":
		return s.cmdClaim(args)
	case "exclude":
		return s.cmdExclude(args)
	case "iv":
		return s.cmdIVIndex(args)
	case "save":
		if err := s.net.SaveState(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "State saved")
		return nil

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for commands)", cmd)
	}
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `
Mesh Allocator Commands:
  Network:
    status                             - Show network summary
    provisioners                       - List provisioners and their ranges
    use <provisioner>                  - Allocate for provisioner (name or UUID)
    add-provisioner <name> [unicast=R,..] [group=R,..] [scenes=R,..]
    nodes | groups | scenes            - List entities
    exclusions                         - List excluded addresses per IV index

  Queries:
    next-unicast <elements> [offset]   - First free element block
    next-group [range]                 - First free group address
    next-scene [range]                 - First free scene number
    free-unicast <elements> [limit]    - List free element blocks
    free-groups [limit]                - List free group addresses
    group-range [size]                 - First unclaimed group range
    unicast-range <size>               - First unclaimed unicast range
    scene-range <size>                 - First unclaimed scene range
    available <address> <elements>     - Check an element block

  Changes:
    provision <name> <elements>        - Add a node at the next free block
    remove-node <name|uuid|address>    - Remove a node, excluding its addresses
    create-group <name>                - Add a group at the next free address
    add-group <address> <name>         - Add a group at address
    remove-group <address>             - Remove a group
    create-scene <name>                - Add a scene with the next free number
    remove-scene <number>              - Remove an unused scene
    claim <unicast|group|scene> <size> - Delegate an unclaimed range
    exclude <address>...               - Exclude addresses at the current IV index
    iv <index>                         - Set the IV index
    save                               - Save network state

  quit                                 - Exit
`)
}

// provisioner returns a copy of the selected provisioner.
func (s *Shell) provisioner() (*mesh.Provisioner, error) {
	var (
		p  mesh.Provisioner
		ok bool
	)
	if s.selected == uuid.Nil {
		p, ok = s.net.LocalProvisioner()
	} else {
		p, ok = s.net.Provisioner(s.selected)
	}
	if !ok {
		return nil, mesh.ErrProvisionerNotFound
	}
	return &p, nil
}

func parseElements(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid element count %q", s)
	}
	return uint8(v), nil
}

func parseSize(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return uint16(v), nil
}

func parseLimit(args []string, i int) (int, error) {
	if len(args) <= i {
		return 10, nil
	}
	v, err := strconv.Atoi(args[i])
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid limit %q", args[i])
	}
	return v, nil
}
