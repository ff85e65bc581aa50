package runtime

// Image contract constants shared by the node image and everything that
// starts or supervises node containers.
const (
	// CredentialEnv is the environment variable carrying the node
	// credential into the container. The entry process fails fast when it
	// is missing.
	CredentialEnv = "PROVER_NODE_ID"

	// ContainerLogPath is the fixed in-container path of the prover's
	// append-only log file. The host-side log file is bind-mounted here so
	// host tooling and the cleanup schedule can manage it without entering
	// the container.
	ContainerLogPath = "/var/log/prover.log"
)
