package model

// SnapshotVersion is the only supported backup format version.
const SnapshotVersion = 1

// SnapshotTables holds one flat list per persistent collection.
type SnapshotTables struct {
	Attempts []AttemptLog      `json:"attempts"`
	Schedule []ScheduleEntry   `json:"schedule"`
	Mastery  []MasteryEntry    `json:"mastery"`
	Courses  []InstalledCourse `json:"courses"`
	Profiles []Profile         `json:"profiles"`
}

// Snapshot is the backup file format. Import rejects any version other
// than SnapshotVersion and never partially applies.
type Snapshot struct {
	Version    int             `json:"version"`
	ExportedAt int64           `json:"exportedAt"`
	Tables     *SnapshotTables `json:"tables"`
}
