// Package files abstracts the folder tree the pipeline walks.
//
// Store is implemented for Google Drive (DriveStore), S3 buckets (S3Store)
// and the local disk (LocalStore). Matcher recognises the raw task exports
// and summary workbooks inside a participant folder by name.
//
// Store errors are AppErrors: authentication problems are ErrTypeAuth,
// everything else ErrTypeStorage. A missing item is a storage error whose
// cause is ErrTypeNotFound, so callers can test for either.
package files
