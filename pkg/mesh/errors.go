package mesh

import "errors"

// Node errors.
var (
	ErrNodeAlreadyExists   = errors.New("node already exists")
	ErrNodeNotFound        = errors.New("node not found")
	ErrAddressNotAvailable = errors.New("address not available")
	ErrInvalidAddressRange = errors.New("invalid unicast address range")
	ErrNoAddressAvailable  = errors.New("no address available")
)

// Group errors.
var (
	ErrGroupAlreadyExists  = errors.New("group already exists")
	ErrGroupNotFound       = errors.New("group not found")
	ErrInvalidGroupAddress = errors.New("invalid group address")
)

// Scene errors.
var (
	ErrSceneAlreadyExists = errors.New("scene already exists")
	ErrSceneNotFound      = errors.New("scene not found")
	ErrSceneInUse         = errors.New("scene in use")
	ErrInvalidSceneNumber = errors.New("invalid scene number")
	ErrNoSceneAvailable   = errors.New("no scene number available")
)

// Provisioner errors.
var (
	ErrProvisionerAlreadyExists     = errors.New("provisioner already exists")
	ErrProvisionerNotFound          = errors.New("provisioner not found")
	ErrOverlappingProvisionerRanges = errors.New("provisioner ranges overlap")
	ErrInvalidRange                 = errors.New("invalid range")
	ErrNoRangeAvailable             = errors.New("no range available")
)
