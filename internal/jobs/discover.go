package jobs

import "errors"

// FindSkeletons lists every .spine project below root.
func FindSkeletons(root string) ([]string, error) {
	return findFiles(root, []string{SkeletonExt})
}

// FindScripts lists every .lua script below root.
func FindScripts(root string) ([]string, error) {
	return findFiles(root, []string{ScriptExt})
}

func joinErrors(errs []error) error {
	return errors.Join(errs...)
}
