package matching

// Ratio computes a normalized edit similarity between two strings in
// [0, 1]: 1 minus the Levenshtein distance divided by the longer length.
// Symmetric; identical strings (including two empties) score 1.0.
func Ratio(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)
	longest := len(ar)
	if len(br) > longest {
		longest = len(br)
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(ar, br))/float64(longest)
}

// levenshtein computes edit distance with unit insertion, deletion and
// substitution costs over a single rolling row.
func levenshtein(ar, br []rune) int {
	n, m := len(ar), len(br)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}
	dp := make([]int, m+1)
	for j := 0; j <= m; j++ {
		dp[j] = j
	}
	for i := 1; i <= n; i++ {
		prev := dp[0]
		dp[0] = i
		for j := 1; j <= m; j++ {
			tmp := dp[j]
			cost := 0
			if ar[i-1] != br[j-1] {
				cost = 1
			}
			dp[j] = min3(dp[j]+1, dp[j-1]+1, prev+cost)
			prev = tmp
		}
	}
	return dp[m]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
