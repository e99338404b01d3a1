package daemon

func (d *Daemon) snapshot() statusResponse {
	stats := d.transport.Stats()
	state := stateIdle
	if stats.Writing {
		state = stateWriting
	}
	return statusResponse{
		Name:            stats.Name,
		Bucket:          stats.Bucket,
		State:           state,
		SentObjectCount: stats.SentObjectCount,
		CachedObjects:   stats.CachedObjects,
	}
}
