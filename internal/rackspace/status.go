package rackspace

// The integer values below are consumed by dashboards downstream and must
// not be renumbered. The three vocabularies share one numbering space so a
// given state name maps to the same number in every family.

// ServerStatus is the lifecycle state of a NextGen cloud server.
type ServerStatus int

const (
	ServerActive       ServerStatus = 1
	ServerBuild        ServerStatus = 2
	ServerDeleted      ServerStatus = 3
	ServerError        ServerStatus = 4
	ServerHardReboot   ServerStatus = 5
	ServerMigrating    ServerStatus = 6
	ServerPassword     ServerStatus = 7
	ServerReboot       ServerStatus = 8
	ServerRebuild      ServerStatus = 9
	ServerRescue       ServerStatus = 10
	ServerResize       ServerStatus = 11
	ServerRevertResize ServerStatus = 12
	ServerSuspended    ServerStatus = 13
	ServerUnknown      ServerStatus = 14
	ServerVerifyResize ServerStatus = 15
)

var serverStatuses = map[string]ServerStatus{
	"ACTIVE":        ServerActive,
	"BUILD":         ServerBuild,
	"DELETED":       ServerDeleted,
	"ERROR":         ServerError,
	"HARD_REBOOT":   ServerHardReboot,
	"MIGRATING":     ServerMigrating,
	"PASSWORD":      ServerPassword,
	"REBOOT":        ServerReboot,
	"REBUILD":       ServerRebuild,
	"RESCUE":        ServerRescue,
	"RESIZE":        ServerResize,
	"REVERT_RESIZE": ServerRevertResize,
	"SUSPENDED":     ServerSuspended,
	"UNKNOWN":       ServerUnknown,
	"VERIFY_RESIZE": ServerVerifyResize,
}

// ParseServerStatus maps a server status string to its ServerStatus.
func ParseServerStatus(s string) (ServerStatus, error) {
	if v, ok := serverStatuses[s]; ok {
		return v, nil
	}
	return 0, &UnknownStatusError{Vocabulary: "server", Status: s}
}

func (s ServerStatus) String() string { return nameOf(serverStatuses, s) }

// DatabaseStatus is the lifecycle state of a cloud database instance.
type DatabaseStatus int

const (
	DatabaseActive   DatabaseStatus = 1
	DatabaseBuild    DatabaseStatus = 2
	DatabaseError    DatabaseStatus = 4
	DatabaseReboot   DatabaseStatus = 8
	DatabaseResize   DatabaseStatus = 11
	DatabaseBackup   DatabaseStatus = 18
	DatabaseBlocked  DatabaseStatus = 19
	DatabaseShutdown DatabaseStatus = 20
)

var databaseStatuses = map[string]DatabaseStatus{
	"ACTIVE":   DatabaseActive,
	"BUILD":    DatabaseBuild,
	"ERROR":    DatabaseError,
	"REBOOT":   DatabaseReboot,
	"RESIZE":   DatabaseResize,
	"BACKUP":   DatabaseBackup,
	"BLOCKED":  DatabaseBlocked,
	"SHUTDOWN": DatabaseShutdown,
}

// ParseDatabaseStatus maps a database instance status string to its
// DatabaseStatus.
func ParseDatabaseStatus(s string) (DatabaseStatus, error) {
	if v, ok := databaseStatuses[s]; ok {
		return v, nil
	}
	return 0, &UnknownStatusError{Vocabulary: "database", Status: s}
}

func (s DatabaseStatus) String() string { return nameOf(databaseStatuses, s) }

// LoadBalancerStatus is the lifecycle state of a cloud load balancer.
type LoadBalancerStatus int

const (
	LoadBalancerActive        LoadBalancerStatus = 1
	LoadBalancerBuild         LoadBalancerStatus = 2
	LoadBalancerDeleted       LoadBalancerStatus = 3
	LoadBalancerError         LoadBalancerStatus = 4
	LoadBalancerSuspended     LoadBalancerStatus = 13
	LoadBalancerPendingUpdate LoadBalancerStatus = 16
	LoadBalancerPendingDelete LoadBalancerStatus = 17
)

var loadBalancerStatuses = map[string]LoadBalancerStatus{
	"ACTIVE":         LoadBalancerActive,
	"BUILD":          LoadBalancerBuild,
	"DELETED":        LoadBalancerDeleted,
	"ERROR":          LoadBalancerError,
	"SUSPENDED":      LoadBalancerSuspended,
	"PENDING_UPDATE": LoadBalancerPendingUpdate,
	"PENDING_DELETE": LoadBalancerPendingDelete,
}

// ParseLoadBalancerStatus maps a load balancer status string to its
// LoadBalancerStatus.
func ParseLoadBalancerStatus(s string) (LoadBalancerStatus, error) {
	if v, ok := loadBalancerStatuses[s]; ok {
		return v, nil
	}
	return 0, &UnknownStatusError{Vocabulary: "load balancer", Status: s}
}

func (s LoadBalancerStatus) String() string { return nameOf(loadBalancerStatuses, s) }

func nameOf[T comparable](vocab map[string]T, v T) string {
	for name, candidate := range vocab {
		if candidate == v {
			return name
		}
	}
	return "INVALID"
}
