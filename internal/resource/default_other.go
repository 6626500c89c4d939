//go:build !darwin && !android

package resource

func Default(root string) (Resolver, error) {
	return fsResolver(root)
}
