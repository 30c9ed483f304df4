package stubindex

// IndexKey names one reverse-lookup namespace. Each key maps a string
// to the set of files containing a matching occurrence. The values are
// stable identifiers and part of the persisted storage contract.
type IndexKey string

const (
	KeyExactPackages            IndexKey = "kt.exactPackages"
	KeyFileFacadeFqName         IndexKey = "kt.fileFacadeFqName"
	KeyFileFacadeShortName      IndexKey = "kt.fileFacadeShortName"
	KeyFileFacadeClassByPackage IndexKey = "kt.fileFacadeClassByPackage"
	KeyFilePartClass            IndexKey = "kt.filePartClass"

	KeyClassShortName         IndexKey = "kt.classShortName"
	KeyFullClassName          IndexKey = "kt.fullClassName"
	KeyTopLevelClassByPackage IndexKey = "kt.topLevelClassByPackage"
	KeySuperClassName         IndexKey = "kt.superClassName"

	KeyFunctionShortName         IndexKey = "kt.functionShortName"
	KeyProbablyNothingFunction   IndexKey = "kt.probablyNothingFunction"
	KeyTopLevelFunctionFqName    IndexKey = "kt.topLevelFunctionFqName"
	KeyTopLevelFunctionByPackage IndexKey = "kt.topLevelFunctionByPackage"

	KeyPropertyShortName         IndexKey = "kt.propertyShortName"
	KeyProbablyNothingProperty   IndexKey = "kt.probablyNothingProperty"
	KeyTopLevelPropertyFqName    IndexKey = "kt.topLevelPropertyFqName"
	KeyTopLevelPropertyByPackage IndexKey = "kt.topLevelPropertyByPackage"

	KeyAnnotationShortName IndexKey = "kt.annotationShortName"

	// KeyTopLevelExtension is fed by the default extension
	// contributor for receiver-typed top-level callables.
	KeyTopLevelExtension IndexKey = "kt.topLevelExtension"
)

// AllKeys lists every index namespace, for storage validation and
// lookup tooling.
var AllKeys = []IndexKey{
	KeyExactPackages,
	KeyFileFacadeFqName,
	KeyFileFacadeShortName,
	KeyFileFacadeClassByPackage,
	KeyFilePartClass,
	KeyClassShortName,
	KeyFullClassName,
	KeyTopLevelClassByPackage,
	KeySuperClassName,
	KeyFunctionShortName,
	KeyProbablyNothingFunction,
	KeyTopLevelFunctionFqName,
	KeyTopLevelFunctionByPackage,
	KeyPropertyShortName,
	KeyProbablyNothingProperty,
	KeyTopLevelPropertyFqName,
	KeyTopLevelPropertyByPackage,
	KeyAnnotationShortName,
	KeyTopLevelExtension,
}
