package completion

// Example is a documented function used for few-shot prompting
type Example struct {
	Code      string
	Docstring string
	// Alternates are other docstring styles for the same code
	Alternates []string
}

var examples = map[string]Example{
	"python": {
		Code: `
def bubble_sort(array):
    n = len(array)
    for i in range(n):
        already_sorted = True
        for j in range(n - i - 1):
            if array[j] > array[j + 1]:
                array[j], array[j + 1] = array[j + 1], array[j]
                already_sorted = False
        if already_sorted:
            break
    return array
`,
		Docstring: `
    Bubble sort implementation.

    Parameters
    ----------
    array : list
        The array to be sorted.

    Returns
    -------
    list
        The sorted array.

    Examples
    --------
    >>> bubble_sort([3, 2, 1])
    [1, 2, 3]
`,
		Alternates: []string{`
    Bubble sort implementation.

    Parameters:
        array(list): The array to be sorted.

    Returns:
        list: The sorted array.

    Examples:
        >>> bubble_sort([3, 2, 1])
        [1, 2, 3]
`},
	},
	"javascript": {
		Code: `
function bblSort(arr){
    for(var i = 0; i < arr.length; i++){
        for(var j = 0; j < ( arr.length - i -1 ); j++){
            if(arr[j] > arr[j+1]){
                var temp = arr[j]
                arr[j] = arr[j + 1]
                arr[j+1] = temp
            }
        }
    }
    console.log(arr);
}
`,
		Docstring: `
* @param {Array} arr - An array of numbers
* @returns {Array} - The sorted array
* @description - This function sorts an array of numbers using the bubble sort algorithm
* @example
* // returns [1, 2, 3]
* bblSort([3, 2, 1])
`,
		Alternates: []string{`
Bubble sort implementation.

Parameters:
    array(list): The array to be sorted.

Returns:
    list: The sorted array.
`},
	},
}

// ExampleFor returns the few-shot example for a language. TypeScript shares
// the JavaScript example.
func ExampleFor(languageID string) (Example, bool) {
	if languageID == "typescript" {
		languageID = "javascript"
	}
	ex, ok := examples[languageID]
	return ex, ok
}
