package api

// ChartCacheLen exposes the chart cache size to the api_test package.
func (s *Server) ChartCacheLen() int {
	return s.chartCache.Len()
}
