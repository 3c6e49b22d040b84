package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/mash-protocol/mesh-go/pkg/address"
	"github.com/mash-protocol/mesh-go/pkg/mesh"
)

func (s *Shell) cmdStatus() error {
	fmt.Fprintf(s.out, "Network:      %s (%s)\n", s.net.Name(), s.net.ID())
	fmt.Fprintf(s.out, "IV index:     %d\n", s.net.IVIndex())
	fmt.Fprintf(s.out, "Provisioners: %d\n", len(s.net.Provisioners()))
	fmt.Fprintf(s.out, "Nodes:        %d\n", len(s.net.Nodes()))
	fmt.Fprintf(s.out, "Groups:       %d\n", len(s.net.Groups()))
	fmt.Fprintf(s.out, "Scenes:       %d\n", len(s.net.Scenes()))
	if p, err := s.provisioner(); err == nil {
		fmt.Fprintf(s.out, "Using:        %s (%s)\n", p.Name, p.UUID)
	}
	return nil
}

func (s *Shell) cmdProvisioners() error {
	provisioners := s.net.Provisioners()
	if len(provisioners) == 0 {
		fmt.Fprintln(s.out, "No provisioners")
		return nil
	}
	current, _ := s.provisioner()

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tNAME\tUNICAST\tGROUP\tSCENES")
	for _, p := range provisioners {
		marker := ""
		if current != nil && p.UUID == current.UUID {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", marker, p.Name,
			joinRanges(p.UnicastRanges), joinRanges(p.GroupRanges), joinRanges(p.SceneRanges))
	}
	return tw.Flush()
}

func joinRanges[R fmt.Stringer](ranges []R) string {
	if len(ranges) == 0 {
		return "-"
	}
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

func (s *Shell) cmdAddProvisioner(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: add-provisioner <name> [unicast=R,..] [group=R,..] [scenes=R,..]")
	}
	p := mesh.NewProvisioner(args[0], nil, nil, nil)
	for _, opt := range args[1:] {
		key, value, ok := strings.Cut(opt, "=")
		if !ok {
			return fmt.Errorf("invalid option %q", opt)
		}
		for _, part := range strings.Split(value, ",") {
			switch key {
			case "unicast", "group":
				r, err := address.ParseRange(part)
				if err != nil {
					return err
				}
				if key == "unicast" {
					p.AllocateUnicastRange(r)
				} else {
					p.AllocateGroupRange(r)
				}
			case "scenes":
				r, err := address.ParseSceneRange(part)
				if err != nil {
					return err
				}
				p.AllocateSceneRange(r)
			default:
				return fmt.Errorf("unknown range kind %q", key)
			}
		}
	}
	if err := s.net.AddProvisioner(*p); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Added provisioner %s (%s)\n", p.Name, p.UUID)
	return nil
}

func (s *Shell) cmdNodes() error {
	nodes := s.net.Nodes()
	if len(nodes) == 0 {
		fmt.Fprintln(s.out, "No nodes")
		return nil
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tADDRESSES\tUUID")
	for _, n := range nodes {
		r, _ := n.Range()
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n.Name, r, n.UUID)
	}
	return tw.Flush()
}

func (s *Shell) cmdGroups() error {
	groups := s.net.Groups()
	if len(groups) == 0 {
		fmt.Fprintln(s.out, "No groups")
		return nil
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ADDRESS\tNAME\tLABEL")
	for _, g := range groups {
		label := "-"
		if g.VirtualLabel != nil {
			label = g.VirtualLabel.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", g.Address, g.Name, label)
	}
	return tw.Flush()
}

func (s *Shell) cmdScenes() error {
	scenes := s.net.Scenes()
	if len(scenes) == 0 {
		fmt.Fprintln(s.out, "No scenes")
		return nil
	}
	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tNAME\tNODES")
	for _, sc := range scenes {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", sc.Number, sc.Name, len(sc.Nodes))
	}
	return tw.Flush()
}

func (s *Shell) cmdExclusions() error {
	lists := s.net.ExclusionLists()
	if len(lists) == 0 {
		fmt.Fprintln(s.out, "No excluded addresses")
		return nil
	}
	for _, l := range lists {
		fmt.Fprintf(s.out, "IV %d: %s\n", l.IVIndex, joinRanges(l.Addresses))
	}
	return nil
}

func (s *Shell) cmdNextUnicast(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: next-unicast <elements> [offset]")
	}
	p, err := s.provisioner()
	if err != nil {
		return err
	}
	count, err := parseElements(args[0])
	if err != nil {
		return err
	}
	offset := address.MinUnicast
	if len(args) > 1 {
		if offset, err = address.ParseAddress(args[1]); err != nil {
			return err
		}
	}
	s.printResult(s.net.NextAvailableUnicastAddress(offset, count, p))
	return nil
}

func (s *Shell) cmdNextGroup(args []string) error {
	if len(args) > 0 {
		r, err := address.ParseRange(args[0])
		if err != nil {
			return err
		}
		s.printResult(s.net.NextAvailableGroupAddressIn(r))
		return nil
	}
	p, err := s.provisioner()
	if err != nil {
		return err
	}
	s.printResult(s.net.NextAvailableGroupAddress(p))
	return nil
}

func (s *Shell) cmdNextScene(args []string) error {
	if len(args) > 0 {
		r, err := address.ParseSceneRange(args[0])
		if err != nil {
			return err
		}
		s.printResult(s.net.NextAvailableSceneIn(r))
		return nil
	}
	p, err := s.provisioner()
	if err != nil {
		return err
	}
	s.printResult(s.net.NextAvailableScene(p))
	return nil
}

func (s *Shell) cmdFreeUnicast(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: free-unicast <elements> [limit]")
	}
	p, err := s.provisioner()
	if err != nil {
		return err
	}
	count, err := parseElements(args[0])
	if err != nil {
		return err
	}
	limit, err := parseLimit(args, 1)
	if err != nil {
		return err
	}
	s.printList(s.net.FreeUnicastBlocks(p, count, limit))
	return nil
}

func (s *Shell) cmdFreeGroups(args []string) error {
	p, err := s.provisioner()
	if err != nil {
		return err
	}
	limit, err := parseLimit(args, 0)
	if err != nil {
		return err
	}
	s.printList(s.net.FreeGroupAddresses(p, limit))
	return nil
}

func (s *Shell) cmdRange(cmd string, args []string) error {
	if len(args) == 0 {
		if cmd != "group-range" {
			return fmt.Errorf("usage: %s <size>", cmd)
		}
		s.printResult(s.net.NextAvailableGroupAddressRangeMax())
		return nil
	}
	size, err := parseSize(args[0])
	if err != nil {
		return err
	}
	switch cmd {
	case "group-range":
		s.printResult(s.net.NextAvailableGroupAddressRange(size))
	case "unicast-range":
		s.printResult(s.net.NextAvailableUnicastAddressRange(size))
	default:
		s.printResult(s.net.NextAvailableSceneRange(size))
	}
	return nil
}

func (s *Shell) cmdAvailable(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: available <address> <elements>")
	}
	addr, err := address.ParseAddress(args[0])
	if err != nil {
		return err
	}
	count, err := parseElements(args[1])
	if err != nil {
		return err
	}
	if s.net.IsAddressAvailable(addr, count, nil) {
		fmt.Fprintln(s.out, "available")
	} else {
		fmt.Fprintln(s.out, "not available")
	}
	return nil
}

func (s *Shell) cmdProvision(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: provision <name> <elements>")
	}
	p, err := s.provisioner()
	if err != nil {
		return err
	}
	count, err := parseElements(args[1])
	if err != nil {
		return err
	}
	node, err := s.net.ProvisionNode(uuid.New(), args[0], count, p)
	if err != nil {
		return err
	}
	r, _ := node.Range()
	fmt.Fprintf(s.out, "Provisioned %s at %s (%s)\n", node.Name, r, node.UUID)
	return nil
}

func (s *Shell) cmdRemoveNode(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: remove-node <name|uuid|address>")
	}
	node, err := s.findNode(args[0])
	if err != nil {
		return err
	}
	if err := s.net.RemoveNode(node.UUID); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Removed %s\n", node.Name)
	return nil
}

func (s *Shell) findNode(ref string) (mesh.Node, error) {
	if id, err := uuid.Parse(ref); err == nil {
		if n, ok := s.net.Node(id); ok {
			return n, nil
		}
	}
	for _, n := range s.net.Nodes() {
		if n.Name == ref {
			return n, nil
		}
	}
	if addr, err := address.ParseAddress(ref); err == nil {
		if n, ok := s.net.NodeWithAddress(addr); ok {
			return n, nil
		}
	}
	return mesh.Node{}, fmt.Errorf("%w: %s", mesh.ErrNodeNotFound, ref)
}

func (s *Shell) cmdCreateGroup(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: create-group <name>")
	}
	p, err := s.provisioner()
	if err != nil {
		return err
	}
	g, err := s.net.CreateGroup(args[0], p)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Created group %s at %s\n", g.Name, g.Address)
	return nil
}

func (s *Shell) cmdAddGroup(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: add-group <address> <name>")
	}
	addr, err := address.ParseAddress(args[0])
	if err != nil {
		return err
	}
	return s.net.AddGroup(mesh.Group{Name: args[1], Address: addr})
}

func (s *Shell) cmdRemoveGroup(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: remove-group <address>")
	}
	addr, err := address.ParseAddress(args[0])
	if err != nil {
		return err
	}
	return s.net.RemoveGroup(addr)
}

func (s *Shell) cmdCreateScene(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: create-scene <name>")
	}
	p, err := s.provisioner()
	if err != nil {
		return err
	}
	sc, err := s.net.CreateScene(args[0], p)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Created scene %s as %s\n", sc.Name, sc.Number)
	return nil
}

func (s *Shell) cmdRemoveScene(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: remove-scene <number>")
	}
	number, err := address.ParseSceneNumber(args[0])
	if err != nil {
		return err
	}
	return s.net.RemoveScene(number)
}

func (s *Shell) cmdClaim(args []string) error {
	if len(args) != 2 {
		return errors.New("usage: claim <unicast|group|scene> <size>")
	}
	p, err := s.provisioner()
	if err != nil {
		return err
	}
	size, err := parseSize(args[1])
	if err != nil {
		return err
	}

	var claimed fmt.Stringer
	switch args[0] {
	case "unicast":
		claimed, err = s.net.ClaimUnicastRange(p.UUID, size)
	case "group":
		claimed, err = s.net.ClaimGroupRange(p.UUID, size)
	case "scene":
		claimed, err = s.net.ClaimSceneRange(p.UUID, size)
	default:
		return fmt.Errorf("unknown range kind %q", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Claimed %s for %s\n", claimed, p.Name)
	return nil
}

func (s *Shell) cmdExclude(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: exclude <address>...")
	}
	addrs := make([]address.Address, 0, len(args))
	for _, a := range args {
		addr, err := address.ParseAddress(a)
		if err != nil {
			return err
		}
		addrs = append(addrs, addr)
	}
	s.net.Exclude(addrs...)
	return nil
}

func (s *Shell) cmdIVIndex(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: iv <index>")
	}
	v, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid IV index %q", args[0])
	}
	s.net.SetIVIndex(mesh.IVIndex(v))
	return nil
}

func (s *Shell) printResult(v fmt.Stringer, ok bool) {
	if !ok {
		fmt.Fprintln(s.out, "none")
		return
	}
	fmt.Fprintln(s.out, v)
}

func (s *Shell) printList(addrs []address.Address) {
	if len(addrs) == 0 {
		fmt.Fprintln(s.out, "none")
		return
	}
	fmt.Fprintln(s.out, joinRanges(addrs))
}
