package hybridscan

// Close releases the memory accounted for the loaded segments. Further
// calls return ErrClosed; closing twice is a no-op.
func (s *Searcher) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for _, ls := range s.segments {
		s.opts.resource.ReleaseMemory(ls.bytes)
	}
	s.segments = nil
	return nil
}
